package render

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour/styles"
)

// Markdown style names accepted in config
const (
	ThemeDark       = styles.DarkStyle
	ThemeLight      = styles.LightStyle
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = styles.DraculaStyle
	ThemePink       = styles.PinkStyle
	ThemeNoTTY      = styles.NoTTYStyle
	ThemeASCII      = styles.AsciiStyle
)

// styleAliases maps config names onto glamour's standard style names
var styleAliases = map[string]string{
	ThemeTokyoNight: styles.TokyoNightStyle,
	"plain":         styles.NoTTYStyle,
}

// ResolveStyle maps a configured style to either a glamour standard style
// name or a JSON style file path. Exactly one of the two results is set.
func ResolveStyle(name string) (standard, path string, err error) {
	if name == "" {
		return styles.DarkStyle, "", nil
	}
	if alias, ok := styleAliases[name]; ok {
		name = alias
	}
	if _, ok := styles.DefaultStyles[name]; ok {
		return name, "", nil
	}
	if info, statErr := os.Stat(name); statErr == nil && !info.IsDir() {
		return "", name, nil
	}
	return "", "", fmt.Errorf("unknown markdown style %q", name)
}

// IsBuiltinStyle reports whether style resolves without a file on disk
func IsBuiltinStyle(style string) bool {
	if _, ok := styleAliases[style]; ok {
		return true
	}
	_, ok := styles.DefaultStyles[style]
	return ok
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the markdown styles selectable by name.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
