package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/monument-ai/athena/internal/config"
	"github.com/monument-ai/athena/internal/render"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change athena settings",
		Long: `Show or change the settings stored in ~/.athena/config.json.

ATHENA_* environment variables (and a .env file in the working directory)
override the file at runtime.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change a setting and save it",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(deps, args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List chat palettes and markdown styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigThemes(deps)
		},
	})

	return cmd
}

func runConfigShow(deps *Dependencies) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}

func runConfigSet(deps *Dependencies, key, value string) error {
	// Start from the file alone so environment overrides are not persisted
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	if key == "tui_theme" {
		if _, ok := render.LookupPalette(value); !ok {
			return fmt.Errorf("unknown tui_theme %q (available: %v)", value, render.PaletteNames())
		}
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "%s = %s\n", key, value)
	return nil
}

func runConfigThemes(deps *Dependencies) error {
	w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TUI THEME\tDESCRIPTION")
	for _, p := range render.Palettes() {
		fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "MARKDOWN STYLE\tDESCRIPTION")
	for _, s := range render.MarkdownStyles() {
		fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description)
	}
	return w.Flush()
}
