package render

import (
	"strings"

	"github.com/monument-ai/athena/internal/logger"
	"github.com/monument-ai/athena/internal/models"
)

// Markdown renders markdown content for terminal display using a pooled renderer.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Reply renders the body of a bot message. The "Athena: " prefix is kept
// out of the markdown so it never turns into formatting. If rendering
// fails the text is returned unchanged.
func Reply(text string, opts Options) string {
	body := strings.TrimPrefix(text, models.ReplyPrefix)
	if body == text || strings.TrimSpace(body) == "" {
		return text
	}

	out, err := Markdown(body, opts)
	if err != nil {
		logger.WarnCF("render", "markdown render failed", logger.Fields{
			"style": opts.Style,
			"error": err,
		})
		return text
	}
	return models.ReplyPrefix + "\n" + strings.Trim(out, "\n")
}
