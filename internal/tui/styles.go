// Package tui provides the terminal chat window for athena.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/monument-ai/athena/internal/render"
)

// Style variables, rebuilt by ApplyPalette
var (
	palette render.Palette

	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	hintStyle         lipgloss.Style
	messagesAreaStyle lipgloss.Style

	userLabelStyle  lipgloss.Style
	userBubbleStyle lipgloss.Style
	botLabelStyle   lipgloss.Style
	botBubbleStyle  lipgloss.Style
	typingStyle     lipgloss.Style
	errorBubble     lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style
	noticeStyle     lipgloss.Style

	welcomeTitleStyle lipgloss.Style
	welcomeStyle      lipgloss.Style
	welcomeIconStyle  lipgloss.Style
)

func init() {
	ApplyPalette(render.DefaultPalette)
}

// ApplyPalette switches the chat window colors. Unknown names fall back
// to the default palette; the return value reports whether name was found.
func ApplyPalette(name string) bool {
	p, ok := render.LookupPalette(name)
	if !ok {
		p = render.PaletteOrDefault(name)
	}
	palette = p
	rebuildStyles()
	return ok
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(palette.Border).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
		Foreground(palette.Title).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(palette.Hint)

	hintStyle = lipgloss.NewStyle().
		Foreground(palette.Hint).
		Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(palette.Border).
		Padding(0, 1)

	// User bubbles sit on the right, bot bubbles on the left
	userLabelStyle = lipgloss.NewStyle().
		Foreground(palette.UserBg).
		Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
		Foreground(palette.UserText).
		Background(palette.UserBg).
		Padding(0, 1)

	botLabelStyle = lipgloss.NewStyle().
		Foreground(palette.Title).
		Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
		Foreground(palette.BotText).
		Background(palette.BotBg).
		Padding(0, 1)

	typingStyle = lipgloss.NewStyle().
		Foreground(palette.Typing).
		Italic(true)

	errorBubble = lipgloss.NewStyle().
		Foreground(palette.Error).
		Background(palette.BotBg).
		Padding(0, 1)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(palette.Border).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(palette.Title).
		Bold(true)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(palette.Hint)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(palette.BotText).
		Background(palette.StatusBar).
		Padding(0, 1)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(palette.Hint)

	noticeStyle = lipgloss.NewStyle().
		Foreground(palette.Typing).
		Bold(true)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(palette.Title).
		Bold(true).
		Align(lipgloss.Center)

	welcomeStyle = lipgloss.NewStyle().
		Foreground(palette.Hint).
		Align(lipgloss.Center)

	welcomeIconStyle = lipgloss.NewStyle().
		Foreground(palette.Typing).
		Align(lipgloss.Center)
}
