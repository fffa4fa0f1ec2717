// Package chat implements the chat widget controller: the conversation log
// and the submit cycle that relays one prompt per exchange.
package chat

import (
	"strings"
	"sync"

	"github.com/monument-ai/athena/internal/models"
)

// Log is the ordered conversation log. It is append-only except for
// removing placeholders, and safe for concurrent use.
type Log struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{}
}

// Append adds m to the end of the log
func (l *Log) Append(m models.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, m)
}

// RemoveThenAppend removes the message with the given ID and appends m in one step,
// so readers never observe the log with neither present.
func (l *Log) RemoveThenAppend(id string, m models.Message) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := l.removeLocked(id)
	l.messages = append(l.messages, m)
	return found
}

func (l *Log) removeLocked(id string) bool {
	for i := range l.messages {
		if l.messages[i].ID == id {
			l.messages = append(l.messages[:i], l.messages[i+1:]...)
			return true
		}
	}
	return false
}

// Messages returns a snapshot of the log
func (l *Log) Messages() []models.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// LastReply returns the newest settled bot reply with the reply prefix
// stripped. Typing placeholders are skipped.
func (l *Log) LastReply() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := len(l.messages) - 1; i >= 0; i-- {
		m := l.messages[i]
		if m.IsBot() && strings.HasPrefix(m.Text, models.ReplyPrefix) {
			return strings.TrimPrefix(m.Text, models.ReplyPrefix), true
		}
	}
	return "", false
}

// Clear empties the log
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}
