package chat

import (
	"context"

	"github.com/google/uuid"
)

// Exchange is one in-flight request/response cycle started by Submit
type Exchange struct {
	id            string
	prompt        string
	placeholderID string
	done          chan struct{}
	reply         string
}

func newExchange(prompt, placeholderID string) *Exchange {
	return &Exchange{
		id:            uuid.NewString(),
		prompt:        prompt,
		placeholderID: placeholderID,
		done:          make(chan struct{}),
	}
}

// ID identifies the exchange
func (e *Exchange) ID() string { return e.id }

// Prompt is the trimmed text that was submitted
func (e *Exchange) Prompt() string { return e.prompt }

// Done is closed once the reply has been rendered
func (e *Exchange) Done() <-chan struct{} { return e.done }

// Reply returns the reply text, or "" while the exchange is pending
func (e *Exchange) Reply() string {
	select {
	case <-e.done:
		return e.reply
	default:
		return ""
	}
}

// Wait blocks until the exchange completes or ctx ends
func (e *Exchange) Wait(ctx context.Context) (string, error) {
	select {
	case <-e.done:
		return e.reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (e *Exchange) complete(reply string) {
	e.reply = reply
	close(e.done)
}
