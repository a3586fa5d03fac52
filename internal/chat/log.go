package chat

import (
	"sync"

	"github.com/diogo/groqchat/internal/models"
)

// Log is the append-only conversation record. Order of insertion is
// display order; entries are never edited or removed.
type Log struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{}
}

// Append adds a message at the end
func (l *Log) Append(m models.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, m)
}

// Messages returns a copy of every entry
func (l *Log) Messages() []models.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Last returns the newest entry
func (l *Log) Last() (models.Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.messages) == 0 {
		return models.Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}
