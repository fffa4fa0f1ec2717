package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/monument-ai/athena/internal/config"
	"github.com/monument-ai/athena/internal/logger"
	"github.com/monument-ai/athena/internal/render"
	"github.com/monument-ai/athena/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with Athena.

Each message is sent on its own; the service keeps no conversation context.
Type /exit or /quit, or press Esc or Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd, flags)
			if err != nil {
				return err
			}
			return runChat(deps, cfg)
		},
	}
}

func runChat(deps *Dependencies, cfg config.Config) error {
	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	logger.InfoCF("chat", "session started", logger.Fields{"base_url": client.BaseURL()})

	return deps.RunChat(client, tui.Options{
		BaseURL:      client.BaseURL(),
		Timeout:      cfg.Timeout(),
		SingleFlight: cfg.SingleFlight,
		Markdown:     cfg.Markdown.Enabled,
		Render:       render.LoadOptions(cfg.Markdown, 0),
		Palette:      cfg.TUITheme,
	})
}
