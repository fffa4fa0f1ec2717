package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the color scheme of the chat window
type Palette struct {
	Name        string
	Description string

	Border    lipgloss.Color
	Title     lipgloss.Color
	UserText  lipgloss.Color
	UserBg    lipgloss.Color
	BotText   lipgloss.Color
	BotBg     lipgloss.Color
	Typing    lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
	StatusBar lipgloss.Color
}

// DefaultPalette is used when the configured name is unknown
const DefaultPalette = "tokyonight"

var palettes = map[string]Palette{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night, blue accents on navy",
		Border:      "#414868",
		Title:       "#7aa2f7",
		UserText:    "#1a1b26",
		UserBg:      "#7aa2f7",
		BotText:     "#c0caf5",
		BotBg:       "#24283b",
		Typing:      "#bb9af7",
		Error:       "#f7768e",
		Hint:        "#565f89",
		StatusBar:   "#3b4261",
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, warm pastels",
		Border:      "#45475a",
		Title:       "#89b4fa",
		UserText:    "#1e1e2e",
		UserBg:      "#a6e3a1",
		BotText:     "#cdd6f4",
		BotBg:       "#313244",
		Typing:      "#cba6f7",
		Error:       "#f38ba8",
		Hint:        "#6c7086",
		StatusBar:   "#45475a",
	},
	"nord": {
		Name:        "nord",
		Description: "Nord, cool arctic tones",
		Border:      "#4c566a",
		Title:       "#88c0d0",
		UserText:    "#2e3440",
		UserBg:      "#88c0d0",
		BotText:     "#eceff4",
		BotBg:       "#3b4252",
		Typing:      "#b48ead",
		Error:       "#bf616a",
		Hint:        "#7b88a1",
		StatusBar:   "#4c566a",
	},
	"dracula": {
		Name:        "dracula",
		Description: "Dracula, vibrant on dark grey",
		Border:      "#6272a4",
		Title:       "#8be9fd",
		UserText:    "#282a36",
		UserBg:      "#50fa7b",
		BotText:     "#f8f8f2",
		BotBg:       "#44475a",
		Typing:      "#ff79c6",
		Error:       "#ff5555",
		Hint:        "#6272a4",
		StatusBar:   "#44475a",
	},
}

// LookupPalette returns the palette with the given name
func LookupPalette(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// PaletteOrDefault returns the named palette, falling back to DefaultPalette
func PaletteOrDefault(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[DefaultPalette]
}

// Palettes returns all palettes sorted by name
func Palettes() []Palette {
	out := make([]Palette, 0, len(palettes))
	for _, p := range palettes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// PaletteNames returns the palette names sorted
func PaletteNames() []string {
	ps := Palettes()
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}
