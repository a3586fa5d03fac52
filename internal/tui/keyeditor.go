package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
)

var errNoStore = errors.New("no credential store configured")

// newKeyInput builds the masked credential field
func newKeyInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "gsk_..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	ti.Prompt = "🔑 "
	return ti
}

// openKeyEditor switches to the credential editor
func (m Model) openKeyEditor() (tea.Model, tea.Cmd) {
	m.editingKey = true
	m.err = nil
	m.notice = ""
	m.keyInput.Reset()
	m.textarea.Blur()
	return m, m.keyInput.Focus()
}

// closeKeyEditor returns to the chat input
func (m *Model) closeKeyEditor() tea.Cmd {
	m.editingKey = false
	m.keyInput.Blur()
	m.keyInput.Reset()
	return m.textarea.Focus()
}

// updateKeyEditor handles input while the credential editor is open
func (m Model) updateKeyEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.keyInput.Width = msg.Width - 12
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.notice = "API key unchanged"
			return m, m.closeKeyEditor()
		case "enter":
			m.saveKey(m.keyInput.Value())
			return m, m.closeKeyEditor()
		}
	}

	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

// saveKey persists value; a blank value removes the stored key
func (m *Model) saveKey(value string) {
	if m.store == nil {
		m.err = errNoStore
		return
	}

	value = strings.TrimSpace(value)
	if err := m.store.Set(value); err != nil {
		m.err = err
		return
	}

	m.mode = m.ctrl.Mode()
	if value == "" {
		m.notice = "API key removed, using offline replies"
	} else {
		m.notice = "API key saved (" + config.MaskCredential(value) + ")"
	}
}

// renderKeyEditor renders the credential editor panel
func (m Model) renderKeyEditor() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}

	status := offlineStyle.Render("no key stored")
	if m.mode == chat.ModeOnline {
		status = onlineStyle.Render("a key is stored")
	}

	body := lipgloss.JoinVertical(
		lipgloss.Left,
		configTitleStyle.Render("Groq API key"),
		configValueStyle.Render("Current: ")+status,
		"",
		m.keyInput.View(),
		"",
		hintStyle.Render("Leave empty and press Enter to remove the stored key"),
	)

	bar := renderShortcuts([]shortcut{
		{"Enter", "Save"},
		{"Esc", "Cancel"},
	})

	return lipgloss.JoinVertical(
		lipgloss.Left,
		configPanelStyle.Width(width).Render(body),
		statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar),
	)
}
