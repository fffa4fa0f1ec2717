package render

import (
	"os"

	"github.com/monument-ai/athena/internal/config"
)

// LoadOptions builds render options from the user's markdown settings.
// GLAMOUR_STYLE overrides the configured style.
func LoadOptions(md config.MarkdownConfig, width int) Options {
	opts := OptionsFromConfig(md, width)
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts = opts.WithStyle(style)
	}
	return opts
}
