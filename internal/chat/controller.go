package chat

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/monument-ai/athena/internal/logger"
	"github.com/monument-ai/athena/internal/models"
)

// Replier fetches the bot's reply for a prompt. It always resolves to
// displayable text; failures are folded into the string.
type Replier interface {
	RequestReply(ctx context.Context, prompt string) string
}

// ReplierFunc adapts a function to Replier
type ReplierFunc func(ctx context.Context, prompt string) string

// RequestReply calls f
func (f ReplierFunc) RequestReply(ctx context.Context, prompt string) string {
	return f(ctx, prompt)
}

// Controller mediates between an input field and the reply endpoint.
// One controller serves one chat session.
type Controller struct {
	replier  Replier
	input    Input
	log      *Log
	timeout  time.Duration
	inflight *semaphore.Weighted // nil unless single-flight
	onChange func()

	wg      sync.WaitGroup
	pending atomic.Int32
}

// Option configures a Controller
type Option func(*Controller)

// WithTimeout bounds each exchange. Zero waits until the reply arrives.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Controller) {
		c.timeout = timeout
	}
}

// WithSingleFlight rejects submissions while an exchange is pending
func WithSingleFlight(enabled bool) Option {
	return func(c *Controller) {
		if enabled {
			c.inflight = semaphore.NewWeighted(1)
		} else {
			c.inflight = nil
		}
	}
}

// WithOnChange registers a callback run after every log mutation.
// It may be called from exchange goroutines.
func WithOnChange(fn func()) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// NewController creates a controller bound to its replier and input
func NewController(replier Replier, input Input, opts ...Option) *Controller {
	c := &Controller{
		replier: replier,
		input:   input,
		log:     NewLog(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Log returns the conversation log
func (c *Controller) Log() *Log {
	return c.log
}

// Pending returns the number of exchanges awaiting a reply
func (c *Controller) Pending() int {
	return int(c.pending.Load())
}

// Wait blocks until every started exchange has completed
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Render appends a message and asks the view to scroll to it.
// Identical calls produce distinct messages.
func (c *Controller) Render(text string, sender models.Sender) models.Message {
	msg := models.NewMessage(text, sender)
	c.log.Append(msg)
	c.changed()
	return msg
}

// RequestReply fetches the reply for prompt, honoring the controller timeout
func (c *Controller) RequestReply(ctx context.Context, prompt string) string {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.replier.RequestReply(ctx, prompt)
}

// Submit handles one form submission. It reads and trims the input; blank
// input (or, in single-flight mode, a pending exchange) is ignored and
// reported as false. Otherwise the user message and a typing placeholder
// are rendered, the input is cleared and refocused, and the reply is fetched
// in the background. The returned Exchange completes once the placeholder
// has been replaced by the reply.
func (c *Controller) Submit(ctx context.Context) (*Exchange, bool) {
	text := strings.TrimSpace(c.input.Value())
	if text == "" {
		return nil, false
	}

	if c.inflight != nil && !c.inflight.TryAcquire(1) {
		logger.DebugCF("chat", "submit rejected while exchange pending", logger.Fields{
			"pending": c.Pending(),
		})
		return nil, false
	}

	c.Render(text, models.SenderUser)
	c.input.SetValue("")
	c.input.Focus()

	placeholder := c.Render(models.TypingIndicator, models.SenderBot)
	ex := newExchange(text, placeholder.ID)

	c.wg.Add(1)
	c.pending.Add(1)
	logger.DebugCF("chat", "exchange started", logger.Fields{
		"exchange": ex.ID(),
		"length":   len(text),
	})

	go c.run(ctx, ex)
	return ex, true
}

// run awaits the reply and swaps it in for this exchange's own placeholder
func (c *Controller) run(ctx context.Context, ex *Exchange) {
	defer c.wg.Done()

	start := time.Now()
	reply := c.RequestReply(ctx, ex.prompt)

	found := c.log.RemoveThenAppend(ex.placeholderID, models.NewMessage(models.ReplyPrefix+reply, models.SenderBot))
	if !found {
		logger.WarnCF("chat", "placeholder already gone", logger.Fields{"exchange": ex.ID()})
	}

	c.pending.Add(-1)
	if c.inflight != nil {
		c.inflight.Release(1)
	}

	logger.InfoCF("chat", "exchange completed", logger.Fields{
		"exchange": ex.ID(),
		"elapsed":  time.Since(start),
	})

	c.changed()
	ex.complete(reply)
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
