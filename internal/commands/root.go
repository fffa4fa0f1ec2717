// Package commands provides CLI commands for athena.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/monument-ai/athena/internal/config"
	"github.com/monument-ai/athena/internal/logger"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootFlags are the flags shared by every command
type rootFlags struct {
	baseURL      string
	timeout      int
	singleFlight bool
	verbose      bool

	output string
	file   string
	raw    bool
}

// NewRootCmd builds the athena command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "athena [prompt]",
		Short: "Terminal chat client for the Athena assistant",
		Long: `athena is a terminal chat client for the Athena prompt service.
Each message is sent to the service's /prompt endpoint and the reply is
shown in the conversation.

Examples:
  athena chat                           Start interactive chat
  athena "What is Athena?"              Send a single prompt
  athena -f prompt.md                   Read prompt from file
  cat prompt.md | athena                Read prompt from stdin
  athena "Hello" -o reply.md            Save reply to file
  athena ping                           Check the service is up
  athena config set base_url http://localhost:8000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "athena %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, flags, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			cfg, err := loadSettings(cmd, flags)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), deps, cfg, prompt, queryOptions{
				output: flags.output,
				raw:    flags.raw,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "Prompt service root (overrides config)")
	cmd.PersistentFlags().IntVar(&flags.timeout, "timeout", 0, "Request timeout in seconds, 0 waits forever (overrides config)")
	cmd.PersistentFlags().BoolVar(&flags.singleFlight, "single-flight", false, "Reject new messages while a reply is pending")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Write debug entries to the log file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "Print only the reply text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(newChatCmd(deps, flags))
	cmd.AddCommand(newPingCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd(deps))

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)
	return cmd
}

// reportedError marks an error whose details were already written to stderr
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Execute runs the root command
func Execute() {
	os.Exit(execute(context.Background(), NewDependencies(), os.Args[1:]))
}

// execute runs the command tree and returns the process exit code.
// Errors are printed once: those already reported by a command are not repeated.
func execute(ctx context.Context, deps *Dependencies, args []string) int {
	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		var shown reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(deps.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// readPrompt picks the prompt from --file, piped stdin, or the argument, in that order
func readPrompt(deps *Dependencies, flags *rootFlags, args []string) (string, bool, error) {
	if flags.file != "" {
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(deps.Stdin) {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" || len(args) == 0 {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// hasPipedInput reports whether r is a pipe or file rather than a terminal
func hasPipedInput(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// loadSettings resolves the effective config: file, then environment, then flags
func loadSettings(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("base-url") {
		cfg.BaseURL = strings.TrimRight(flags.baseURL, "/")
	}
	if changed("timeout") {
		cfg.RequestTimeout = flags.timeout
	}
	if changed("single-flight") {
		cfg.SingleFlight = flags.singleFlight
	}
	if changed("verbose") {
		cfg.Verbose = flags.verbose
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logPath, err := config.GetLogPath(cfg)
	if err != nil {
		return cfg, err
	}
	if err := logger.Init(logger.Options{Path: logPath, Verbose: cfg.Verbose}); err != nil {
		// Logging is best effort; the client still works without it
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	logger.DebugCF("commands", "settings loaded", logger.Fields{
		"command":       cmd.Name(),
		"base_url":      cfg.BaseURL,
		"timeout":       cfg.Timeout(),
		"single_flight": cfg.SingleFlight,
	})
	return cfg, nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
