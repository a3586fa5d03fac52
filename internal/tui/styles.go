// Package tui provides the terminal user interface for groqchat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder    lipgloss.Color
	colorUser      lipgloss.Color
	colorAssistant lipgloss.Color
	colorAccent    lipgloss.Color
	colorError     lipgloss.Color
	colorOnline    lipgloss.Color
	colorOffline   lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
	colorTextMute  lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle lipgloss.Style

	userBubbleStyle      lipgloss.Style
	userLabelStyle       lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	errorBubbleStyle     lipgloss.Style
	errorLabelStyle      lipgloss.Style

	onlineStyle  lipgloss.Style
	offlineStyle lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	errorStyle  lipgloss.Style
	noticeStyle lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style
	welcomeIconStyle  lipgloss.Style

	configHeaderStyle       lipgloss.Style
	configTitleStyle        lipgloss.Style
	configPanelStyle        lipgloss.Style
	configSectionTitleStyle lipgloss.Style
	configMenuItemStyle     lipgloss.Style
	configMenuSelectedStyle lipgloss.Style
	configCursorStyle       lipgloss.Style
	configValueStyle        lipgloss.Style
	configEnabledStyle      lipgloss.Style
	configDisabledStyle     lipgloss.Style
	configPathStyle         lipgloss.Style
	configFeedbackStyle     lipgloss.Style
	configStatusBarStyle    lipgloss.Style
)

// Gradient colors for the composing animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#f55036"),
	lipgloss.Color("#ff7a45"),
	lipgloss.Color("#ffb86b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#ffb86b"),
	lipgloss.Color("#ff7a45"),
}

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorUser = theme.User
	colorAssistant = theme.Assistant
	colorAccent = theme.Accent
	colorError = theme.Error
	colorOnline = theme.Online
	colorOffline = theme.Offline
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2).
		MarginBottom(1)

	titleStyle = lipgloss.NewStyle().Foreground(colorUser).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	hintStyle = lipgloss.NewStyle().Foreground(colorTextMute).Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorUser).
		Foreground(colorText).
		Padding(0, 1).
		MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorUser).
		Bold(true).
		MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorAssistant).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	assistantLabelStyle = lipgloss.NewStyle().Foreground(colorAssistant).Bold(true)

	errorBubbleStyle = assistantBubbleStyle.
		BorderForeground(colorError).
		Foreground(colorError)

	errorLabelStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	onlineStyle = lipgloss.NewStyle().Foreground(colorOnline).Bold(true)
	offlineStyle = lipgloss.NewStyle().Foreground(colorOffline)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		MarginTop(1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorUser).
		Bold(true).
		MarginRight(1)

	loadingStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorTextMute).MarginTop(1)
	statusKeyStyle = lipgloss.NewStyle().Foreground(colorTextDim).Bold(true)
	statusDescStyle = lipgloss.NewStyle().Foreground(colorTextMute)

	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true)

	welcomeStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAssistant).
		Padding(1, 2).
		MarginBottom(1).
		Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
		Foreground(colorUser).
		Bold(true).
		MarginBottom(1)

	welcomeIconStyle = lipgloss.NewStyle().Foreground(colorAccent).MarginBottom(1)

	configHeaderStyle = lipgloss.NewStyle().
		Foreground(colorUser).
		Bold(true).
		MarginBottom(1).
		Align(lipgloss.Center)

	configTitleStyle = lipgloss.NewStyle().
		Foreground(colorText).
		Bold(true).
		MarginBottom(1).
		PaddingLeft(1)

	configPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2)

	configSectionTitleStyle = lipgloss.NewStyle().
		Foreground(colorAssistant).
		Bold(true).
		MarginTop(1)

	configMenuItemStyle = lipgloss.NewStyle().Foreground(colorText).PaddingLeft(2)
	configMenuSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	configCursorStyle = lipgloss.NewStyle().Foreground(colorAccent)
	configValueStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	configEnabledStyle = lipgloss.NewStyle().Foreground(colorOnline)
	configDisabledStyle = lipgloss.NewStyle().Foreground(colorError)
	configPathStyle = lipgloss.NewStyle().Foreground(colorTextMute).Italic(true)

	configFeedbackStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Italic(true).
		MarginTop(1)

	configStatusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		MarginTop(1).
		Align(lipgloss.Center)
}

// shortcut is one key hint in a status bar
type shortcut struct {
	key  string
	desc string
}

func renderShortcuts(shortcuts []shortcut) string {
	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}
	return strings.Join(items, "  │  ")
}

// FormatError returns a styled error message with structured details
// and a hint when the error kind is recognised.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: the API key was rejected. Run 'groqchat key set' to replace it"))
	case errors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: rate limit reached. Wait a moment and try again"))
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check your internet connection and try again"))
	}

	return sb.String()
}
