package models

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who authored a transcript entry
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one entry of the conversation log. Values are never mutated
// after creation; the log hands out copies.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	IsError   bool      `json:"is_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserMessage creates a user-authored message
func NewUserMessage(text string) Message {
	return newMessage(text, SenderUser, false)
}

// NewAssistantMessage creates an assistant reply
func NewAssistantMessage(text string) Message {
	return newMessage(text, SenderAssistant, false)
}

// NewErrorMessage creates an assistant turn rendered with error styling
func NewErrorMessage(text string) Message {
	return newMessage(text, SenderAssistant, true)
}

func newMessage(text string, sender Sender, isError bool) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		IsError:   isError,
		CreatedAt: time.Now().UTC(),
	}
}

// IsUser reports whether the message was authored by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}
