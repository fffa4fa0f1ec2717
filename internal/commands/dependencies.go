package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/monument-ai/athena/internal/api"
	"github.com/monument-ai/athena/internal/chat"
	"github.com/monument-ai/athena/internal/config"
	"github.com/monument-ai/athena/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the prompt service client for the resolved config
	NewClient func(cfg config.Config) (api.AthenaClientInterface, error)

	// RunChat runs the interactive chat window
	RunChat func(replier chat.Replier, opts tui.Options) error

	// Clipboard copies text to the system clipboard
	Clipboard func(text string) error

	// IsTTY reports whether stdout is a terminal
	IsTTY func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: defaultClient,
		RunChat:   tui.RunChat,
		Clipboard: clipboard.WriteAll,
		IsTTY:     isStdoutTTY,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

func defaultClient(cfg config.Config) (api.AthenaClientInterface, error) {
	return api.NewClient(api.WithBaseURL(cfg.BaseURL))
}
