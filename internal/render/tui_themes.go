package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme of the chat interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// User and Assistant tag each transcript turn
	User      lipgloss.Color
	Assistant lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Online    lipgloss.Color
	Offline   lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// GroqTheme is the default, warm dark theme with orange accents
	GroqTheme = TUITheme{
		Name:        "groq",
		Description: "Groq - Dark theme with orange accents",

		Background: lipgloss.Color("#141414"),
		Surface:    lipgloss.Color("#1f1f1f"),
		Border:     lipgloss.Color("#3a3a3a"),

		User:      lipgloss.Color("#f55036"),
		Assistant: lipgloss.Color("#8ab4f8"),
		Accent:    lipgloss.Color("#ffb86b"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#ff5f5f"),
		Online:    lipgloss.Color("#7ee787"),
		Offline:   lipgloss.Color("#a0a0a0"),

		Text:     lipgloss.Color("#e8e8e8"),
		TextDim:  lipgloss.Color("#8a8a8a"),
		TextMute: lipgloss.Color("#4a4a4a"),
	}

	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Background: lipgloss.Color("#1a1b26"),
		Surface:    lipgloss.Color("#24283b"),
		Border:     lipgloss.Color("#414868"),

		User:      lipgloss.Color("#9ece6a"),
		Assistant: lipgloss.Color("#7aa2f7"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),
		Online:    lipgloss.Color("#73daca"),
		Offline:   lipgloss.Color("#565f89"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",

		Background: lipgloss.Color("#1e1e2e"),
		Surface:    lipgloss.Color("#313244"),
		Border:     lipgloss.Color("#45475a"),

		User:      lipgloss.Color("#a6e3a1"),
		Assistant: lipgloss.Color("#89b4fa"),
		Accent:    lipgloss.Color("#cba6f7"),
		Warning:   lipgloss.Color("#f9e2af"),
		Error:     lipgloss.Color("#f38ba8"),
		Online:    lipgloss.Color("#94e2d5"),
		Offline:   lipgloss.Color("#6c7086"),

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),
	}

	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "Dracula - Dark theme with vibrant colors",

		Background: lipgloss.Color("#282a36"),
		Surface:    lipgloss.Color("#44475a"),
		Border:     lipgloss.Color("#6272a4"),

		User:      lipgloss.Color("#50fa7b"),
		Assistant: lipgloss.Color("#8be9fd"),
		Accent:    lipgloss.Color("#ff79c6"),
		Warning:   lipgloss.Color("#f1fa8c"),
		Error:     lipgloss.Color("#ff5555"),
		Online:    lipgloss.Color("#50fa7b"),
		Offline:   lipgloss.Color("#6272a4"),

		Text:     lipgloss.Color("#f8f8f2"),
		TextDim:  lipgloss.Color("#6272a4"),
		TextMute: lipgloss.Color("#44475a"),
	}
)

var tuiThemes = []TUITheme{GroqTheme, TokyoNightTheme, CatppuccinMochaTheme, DraculaTheme}

var (
	tuiThemeMu      sync.RWMutex
	currentTUITheme = GroqTheme
)

// GetTUITheme returns the active TUI theme
func GetTUITheme() TUITheme {
	tuiThemeMu.RLock()
	defer tuiThemeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates a theme by name; unknown names leave it unchanged
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	tuiThemeMu.Lock()
	currentTUITheme = theme
	tuiThemeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range tuiThemes {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns all built-in TUI themes
func AvailableTUIThemes() []TUITheme {
	out := make([]TUITheme, len(tuiThemes))
	copy(out, tuiThemes)
	return out
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	names := make([]string, len(tuiThemes))
	for i, t := range tuiThemes {
		names[i] = t.Name
	}
	return names
}
