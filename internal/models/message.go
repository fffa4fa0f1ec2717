package models

import "github.com/google/uuid"

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents one entry in the conversation log.
// Messages are never edited; a placeholder is removed and a new message appended.
type Message struct {
	ID     string
	Text   string
	Sender Sender
}

// NewMessage creates a message with a fresh identity
func NewMessage(text string, sender Sender) Message {
	return Message{
		ID:     uuid.NewString(),
		Text:   text,
		Sender: sender,
	}
}

// IsUser reports whether the message was authored by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsBot reports whether the message was authored by the bot
func (m Message) IsBot() bool {
	return m.Sender == SenderBot
}
