package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/monument-ai/athena/internal/api"
	"github.com/monument-ai/athena/internal/chat"
	"github.com/monument-ai/athena/internal/config"
	apierrors "github.com/monument-ai/athena/internal/errors"
	"github.com/monument-ai/athena/internal/logger"
	"github.com/monument-ai/athena/internal/models"
	"github.com/monument-ai/athena/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#7aa2f7"),
	lipgloss.Color("#bb9af7"),
	lipgloss.Color("#7dcfff"),
	lipgloss.Color("#9ece6a"),
	lipgloss.Color("#e0af68"),
}

var (
	colorText    = lipgloss.Color("#c0caf5")
	colorTextDim = lipgloss.Color("#565f89")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorError   = lipgloss.Color("#f7768e")
	colorPrimary = lipgloss.Color("#7aa2f7")
)

var (
	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(0, 1).
			MarginBottom(1)
)

// errFetchFailed marks a one-shot query whose reply was a fetch error
var errFetchFailed = errors.New("request failed")

// spinner draws a one-line loading indicator on a writer
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	frame   int
}

func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(s.w, "\033[?25l")
		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.render()
				s.frame++
			}
		}
	}()
}

func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	color := gradientColors[s.frame%len(gradientColors)]
	char := lipgloss.NewStyle().Foreground(color).Bold(true).Render(chars[s.frame%len(chars)])
	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.w, "\r\033[K%s %s", char, msg)
}

// halt stops the animation and waits for the line to be cleared. Safe to call twice.
func (s *spinner) halt() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// recordingReplier keeps the last structured error while still folding
// failures into reply text for the log
type recordingReplier struct {
	client api.AthenaClientInterface

	mu  sync.Mutex
	err error
}

func (r *recordingReplier) RequestReply(ctx context.Context, prompt string) string {
	text, err := r.client.Prompt(ctx, prompt)
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	return api.ReplyText(text, err)
}

func (r *recordingReplier) lastErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

type queryOptions struct {
	output string
	raw    bool
}

// runQuery sends one prompt through a chat controller and prints the reply.
// Raw mode, or a non-terminal stdout, prints only the reply text.
func runQuery(ctx context.Context, deps *Dependencies, cfg config.Config, prompt string, opts queryOptions) error {
	if strings.TrimSpace(prompt) == "" {
		return apierrors.ErrEmptyPrompt
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	decorated := !opts.raw && deps.IsTTY()
	replier := &recordingReplier{client: client}
	controller := chat.NewController(replier, chat.NewBufferInput(prompt),
		chat.WithTimeout(cfg.Timeout()),
	)

	ex, ok := controller.Submit(ctx)
	if !ok {
		return apierrors.ErrEmptyPrompt
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, models.TypingIndicator)
		spin.start()
	}

	startTime := time.Now()
	reply, err := ex.Wait(ctx)
	controller.Wait()
	if spin != nil {
		spin.halt()
	}
	if err != nil {
		return err
	}

	logger.InfoCF("query", "one-shot reply received", logger.Fields{
		"elapsed": time.Since(startTime),
		"length":  len(reply),
	})

	if fetchErr := replier.lastErr(); fetchErr != nil {
		logger.ErrorCF("query", "one-shot request failed", logger.Fields{"error": fetchErr})
		err := fmt.Errorf("%w: %v", errFetchFailed, fetchErr)
		if opts.raw {
			return err
		}
		fmt.Fprintln(deps.Stderr, formatErrorMessage(fetchErr, "Request failed"))
		return reportedError{err: err}
	}

	if cfg.CopyToClipboard && decorated {
		if err := deps.Clipboard(reply); err != nil {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !opts.raw {
			fmt.Fprintln(deps.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", opts.output)))
		}
		return nil
	}

	if !decorated {
		fmt.Fprintln(deps.Stdout, reply)
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	body := reply
	if cfg.Markdown.Enabled {
		rendered, err := render.Markdown(reply, render.LoadOptions(cfg.Markdown, bubbleWidth-4))
		if err == nil {
			body = strings.Trim(rendered, "\n")
		}
	}

	fmt.Fprintln(deps.Stdout, botLabelStyle.Render("✦ "+models.BotName))
	fmt.Fprintln(deps.Stdout, botBubbleStyle.Width(bubbleWidth).Render(body))
	return nil
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise --timeout"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check the service is reachable with 'athena ping'"))
	case apierrors.IsStatusError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The service rejected the request; check base_url"))
	case apierrors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The service did not answer with JSON"))
	}

	return sb.String()
}
