package chat

import (
	"fmt"
	"strings"
)

// CannedResponse pairs a keyword with the reply used when it matches
type CannedResponse struct {
	Keyword  string
	Response string
}

// DefaultCannedResponses returns the offline table in match order.
func DefaultCannedResponses() []CannedResponse {
	return []CannedResponse{
		{"hello", "Hello! I'm your AI assistant. I'm currently running in demo mode. To access the full AI capabilities, please add your Groq API key above."},
		{"hi", "Hi there! How can I help you today? Note: I'm in demo mode without an API key."},
		{"how are you", "I'm doing well, thank you! I'm an AI assistant ready to help you. Currently running in demo mode."},
		{"what can you do", "I can help you with various questions and tasks like:\n\n• Answering questions\n• Providing explanations\n• Writing assistance\n• Problem-solving\n• And much more!\n\nAdd your Groq API key to unlock full AI capabilities."},
		{"github", "This web application is built with HTML, CSS, and JavaScript, and deployed using GitHub Actions. You can find the source code in the repository!"},
		{"api", "This app uses the Groq API for AI responses. Get your free API key from console.groq.com to enable full functionality."},
		{"help", "I'm here to help! You can ask me questions about various topics. For the best experience, add your Groq API key in the field above."},
	}
}

// DefaultTemplate is the offline reply when no keyword matches. It quotes
// the message exactly as typed.
func DefaultTemplate(message string) string {
	return fmt.Sprintf("I received your message: \"%s\"\n\n"+
		"I'm currently in demo mode. To get intelligent AI responses, please:\n\n"+
		"1. Get a free API key from https://console.groq.com/keys\n"+
		"2. Enter it in the API key field above\n"+
		"3. Ask your question again!\n\n"+
		"The app will then use Groq's LLaMA model to provide helpful responses.", message)
}

// CannedTable answers messages without a network. The first entry whose
// keyword occurs in the lowercased message wins.
type CannedTable struct {
	entries []CannedResponse
}

// NewCannedTable copies entries, lowercasing keywords. Blank keywords are dropped.
func NewCannedTable(entries []CannedResponse) *CannedTable {
	t := &CannedTable{entries: make([]CannedResponse, 0, len(entries))}
	for _, e := range entries {
		kw := strings.ToLower(e.Keyword)
		if kw == "" {
			continue
		}
		t.entries = append(t.entries, CannedResponse{Keyword: kw, Response: e.Response})
	}
	return t
}

// Lookup returns the reply for message. It never fails.
func (t *CannedTable) Lookup(message string) string {
	lower := strings.ToLower(message)
	for _, e := range t.entries {
		if strings.Contains(lower, e.Keyword) {
			return e.Response
		}
	}
	return DefaultTemplate(message)
}

// Entries returns a copy of the table in match order.
func (t *CannedTable) Entries() []CannedResponse {
	out := make([]CannedResponse, len(t.entries))
	copy(out, t.entries)
	return out
}
