package render

// Glamour standard styles
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleASCII      = "ascii"
	StyleNoTTY      = "notty"
)

// StyleInfo describes a markdown style for `athena config themes`
type StyleInfo struct {
	Name        string
	Description string
}

var markdownStyles = []StyleInfo{
	{Name: StyleDark, Description: "Dark theme (default)"},
	{Name: StyleLight, Description: "Light theme for bright terminals"},
	{Name: StyleDracula, Description: "Dracula color scheme"},
	{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
	{Name: StylePink, Description: "Pink accents"},
	{Name: StyleASCII, Description: "ASCII-only output"},
	{Name: StyleNoTTY, Description: "Plain text (no styling)"},
}

// IsStandardStyle reports whether style names a built-in glamour style.
// Anything else is treated as a path to a JSON style file.
func IsStandardStyle(style string) bool {
	for _, s := range markdownStyles {
		if s.Name == style {
			return true
		}
	}
	return false
}

// MarkdownStyles lists the built-in markdown styles
func MarkdownStyles() []StyleInfo {
	out := make([]StyleInfo, len(markdownStyles))
	copy(out, markdownStyles)
	return out
}
