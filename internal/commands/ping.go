package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/monument-ai/athena/internal/config"
	"github.com/monument-ai/athena/internal/logger"
)

const defaultPingTimeout = 10 * time.Second

func newPingCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the prompt service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadSettings(cmd, flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runPing(ctx, deps, cfg)
		},
	}
}

func runPing(ctx context.Context, deps *Dependencies, cfg config.Config) error {
	timeout := cfg.Timeout()
	if timeout == 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	start := time.Now()
	status, err := client.Health(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		logger.ErrorCF("ping", "health check failed", logger.Fields{
			"base_url": client.BaseURL(),
			"error":    err,
		})
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Ping failed"))
		return reportedError{err: fmt.Errorf("ping %s: %w", client.BaseURL(), err)}
	}

	mark := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓")
	if !status.OK() {
		mark = lipgloss.NewStyle().Foreground(colorError).Render("!")
	}

	line := fmt.Sprintf("%s %s status=%s (%s)", mark, client.BaseURL(), status.Status, elapsed)
	if status.Message != "" {
		line += " " + lipgloss.NewStyle().Foreground(colorTextDim).Render(status.Message)
	}
	fmt.Fprintln(deps.Stdout, line)
	return nil
}
