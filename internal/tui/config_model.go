package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/render"
)

// configView represents the current view in the config menu
type configView int

const (
	viewMain configView = iota
	viewModelSelect
	viewThemeSelect    // Markdown theme
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for main view
const (
	menuModel = iota
	menuCredentialBackend
	menuVerbose
	menuCopyToClipboard
	menuTheme    // Markdown theme
	menuTUITheme // TUI color theme
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel represents the config TUI state
type ConfigModel struct {
	config     config.Config
	configPath string
	credsPath  string
	credsExist bool
	save       func(config.Config) error

	// Navigation
	view           configView
	cursor         int
	modelCursor    int
	themeCursor    int
	tuiThemeCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a config menu editing cfg
func NewConfigModel(cfg config.Config) ConfigModel {
	configPath, _ := config.GetConfigPath()
	credsPath, _ := config.GetCredentialsPath()

	credsExist := false
	if _, err := os.Stat(credsPath); err == nil {
		credsExist = true
	}

	tuiTheme := cfg.TUITheme
	if tuiTheme == "" {
		tuiTheme = render.GroqTheme.Name
	}
	if render.SetTUITheme(tuiTheme) {
		UpdateTheme()
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		credsPath:       credsPath,
		credsExist:      credsExist,
		save:            config.SaveConfig,
		view:            viewMain,
		modelCursor:     indexOf(models.AvailableModels(), cfg.Model),
		themeCursor:     indexOf(render.ThemeNames(), markdownStyle(cfg)),
		tuiThemeCursor:  indexOf(render.TUIThemeNames(), tuiTheme),
		feedbackTimeout: 2 * time.Second,
	}
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return 0
}

func markdownStyle(cfg config.Config) string {
	if cfg.Markdown.Style == "" {
		return render.ThemeDark
	}
	return cfg.Markdown.Style
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// listLen is the number of entries in the active list
func (m ConfigModel) listLen() int {
	switch m.view {
	case viewModelSelect:
		return len(models.AvailableModels())
	case viewThemeSelect:
		return len(render.ThemeNames())
	case viewTUIThemeSelect:
		return len(render.TUIThemeNames())
	default:
		return menuItemCount
	}
}

// activeCursor returns the cursor of the active list
func (m *ConfigModel) activeCursor() *int {
	switch m.view {
	case viewModelSelect:
		return &m.modelCursor
	case viewThemeSelect:
		return &m.themeCursor
	case viewTUIThemeSelect:
		return &m.tuiThemeCursor
	default:
		return &m.cursor
	}
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
			} else {
				return m, tea.Quit
			}

		case "up", "k":
			cur := m.activeCursor()
			*cur = (*cur - 1 + m.listLen()) % m.listLen()

		case "down", "j":
			cur := m.activeCursor()
			*cur = (*cur + 1) % m.listLen()

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// persist saves the config and sets feedback to ok or the error
func (m *ConfigModel) persist(ok string) tea.Cmd {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = ok
	}
	return clearFeedback(m.feedbackTimeout)
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuModel:
			m.view = viewModelSelect
			return m, nil

		case menuCredentialBackend:
			if m.config.CredentialBackend == config.BackendKeyring {
				m.config.CredentialBackend = config.BackendFile
			} else {
				m.config.CredentialBackend = config.BackendKeyring
			}
			return m, m.persist("Credential backend set to " + m.config.CredentialBackend)

		case menuVerbose:
			m.config.Verbose = !m.config.Verbose
			return m, m.persist("Verbose logging " + enabledWord(m.config.Verbose))

		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m, m.persist("Copy to clipboard " + enabledWord(m.config.CopyToClipboard))

		case menuTheme:
			m.view = viewThemeSelect
			return m, nil

		case menuTUITheme:
			m.view = viewTUIThemeSelect
			return m, nil

		case menuExit:
			return m, tea.Quit
		}

	case viewModelSelect:
		m.config.Model = models.AvailableModels()[m.modelCursor]
		m.view = viewMain
		return m, m.persist("Model set to " + m.config.Model)

	case viewThemeSelect:
		m.config.Markdown.Style = render.ThemeNames()[m.themeCursor]
		m.view = viewMain
		return m, m.persist("Markdown theme set to " + m.config.Markdown.Style)

	case viewTUIThemeSelect:
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected
		render.SetTUITheme(selected)
		UpdateTheme()
		m.view = viewMain
		return m, m.persist("TUI theme set to " + selected)
	}

	return m, nil
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("⚡ Configuration"))
	sections = append(sections, header)

	sections = append(sections, configPanelStyle.Width(contentWidth).Render(m.renderPaths()))

	var settingsContent string
	switch m.view {
	case viewMain:
		settingsContent = m.renderMainMenu()
	case viewModelSelect:
		settingsContent = m.renderModelSelect()
	case viewThemeSelect:
		settingsContent = m.renderThemeSelect()
	case viewTUIThemeSelect:
		settingsContent = m.renderTUIThemeSelect()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settingsContent))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPaths renders where config and credential live
func (m ConfigModel) renderPaths() string {
	var creds string
	if m.config.CredentialBackend == config.BackendKeyring {
		creds = configPathStyle.Render("OS keyring, service " + config.KeyringService)
	} else {
		status := configDisabledStyle.Render("✗ not found")
		if m.credsExist {
			status = configEnabledStyle.Render("✓ exists")
		}
		creds = configPathStyle.Render(m.credsPath) + "  " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("📁 Paths"),
		fmt.Sprintf("   Config:  %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("   API key: %s", creds),
	)
}

// menuLine renders one selectable row with its value aligned
func (m ConfigModel) menuLine(selected bool, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if selected {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	pad := 20 - len(label)
	if pad < 1 {
		pad = 1
	}
	return cursor + style.Render(label) + strings.Repeat(" ", pad) + value
}

// renderMainMenu renders the main settings menu
func (m ConfigModel) renderMainMenu() string {
	rows := []struct {
		label string
		value string
	}{
		menuModel:             {"Model", configValueStyle.Render(m.config.Model)},
		menuCredentialBackend: {"Credential Backend", configValueStyle.Render(m.config.CredentialBackend)},
		menuVerbose:           {"Verbose Logging", m.renderBoolValue(m.config.Verbose)},
		menuCopyToClipboard:   {"Copy to Clipboard", m.renderBoolValue(m.config.CopyToClipboard)},
		menuTheme:             {"Markdown Theme", configValueStyle.Render(markdownStyle(m.config))},
		menuTUITheme:          {"TUI Theme", configValueStyle.Render(render.GetTUITheme().Name)},
		menuExit:              {"Exit", ""},
	}

	items := []string{configSectionTitleStyle.Render("⚙ Settings"), ""}
	for i, row := range rows {
		if i == menuExit {
			items = append(items, "")
		}
		items = append(items, m.menuLine(m.cursor == i, row.label, row.value))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderChoices renders a selection sub-menu
func (m ConfigModel) renderChoices(title string, labels, names []string, cursor int, current string) string {
	items := []string{configSectionTitleStyle.Render(title), ""}
	for i, label := range labels {
		line := m.menuLine(cursor == i, label, "")
		if names[i] == current {
			line += configEnabledStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderModelSelect renders the model selection sub-menu
func (m ConfigModel) renderModelSelect() string {
	names := models.AvailableModels()
	return m.renderChoices("🤖 Select Model", names, names, m.modelCursor, m.config.Model)
}

// renderThemeSelect renders the markdown theme selection sub-menu
func (m ConfigModel) renderThemeSelect() string {
	themes := render.AvailableThemes()
	labels := make([]string, len(themes))
	names := make([]string, len(themes))
	for i, t := range themes {
		labels[i] = fmt.Sprintf("%s - %s", t.Name, t.Description)
		names[i] = t.Name
	}
	return m.renderChoices("🎨 Select Markdown Theme", labels, names, m.themeCursor, markdownStyle(m.config))
}

// renderTUIThemeSelect renders the TUI color theme selection sub-menu
func (m ConfigModel) renderTUIThemeSelect() string {
	themes := render.AvailableTUIThemes()
	labels := make([]string, len(themes))
	names := make([]string, len(themes))
	for i, t := range themes {
		labels[i] = fmt.Sprintf("%s - %s", t.Name, t.Description)
		names[i] = t.Name
	}
	return m.renderChoices("🎨 Select TUI Theme", labels, names, m.tuiThemeCursor, render.GetTUITheme().Name)
}

// renderBoolValue renders a boolean value with appropriate styling
func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("✓ enabled")
	}
	return configDisabledStyle.Render("✗ disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	var shortcuts []shortcut
	if m.view == viewMain {
		shortcuts = []shortcut{{"↑↓", "Navigate"}, {"Enter", "Select"}, {"Esc", "Quit"}}
	} else {
		shortcuts = []shortcut{{"↑↓", "Navigate"}, {"Enter", "Confirm"}, {"Esc", "Back"}}
	}
	return configStatusBarStyle.Width(width).Render(renderShortcuts(shortcuts))
}

// Config returns the config as currently edited
func (m ConfigModel) Config() config.Config {
	return m.config
}

// RunConfig starts the config TUI
func RunConfig(cfg config.Config) error {
	p := tea.NewProgram(NewConfigModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
