package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/render"
	"github.com/diogo/groqchat/internal/transcript"
)

// writeClipboard is swapped in tests
var writeClipboard = clipboard.WriteAll

// Animation tick message
type animationTickMsg time.Time

// replyMsg carries the settled assistant message of a turn
type replyMsg struct {
	message models.Message
}

// Model represents the chat TUI state
type Model struct {
	ctx   context.Context
	ctrl  *chat.Controller
	store config.CredentialStore
	cfg   config.Config

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	keyInput textinput.Model

	// State
	mode           chat.Mode
	loading        bool
	ready          bool
	editingKey     bool
	err            error
	notice         string
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model around ctrl. store is the same
// credential store the controller reads; /key writes through it.
func NewChatModel(ctx context.Context, ctrl *chat.Controller, store config.CredentialStore, cfg config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = key.NewBinding(
		key.WithKeys("alt+enter", "ctrl+j"),
		key.WithHelp("alt+enter", "new line"),
	)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:      ctx,
		ctrl:     ctrl,
		store:    store,
		cfg:      cfg,
		textarea: ta,
		spinner:  s,
		keyInput: newKeyInput(),
		mode:     ctrl.Mode(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation ticks
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.editingKey {
		return m.updateKeyEditor(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2      // Extra spacing

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.keyInput.Width = contentWidth - 8
		m.updateViewport()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Input is frozen while a reply is pending
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, tea.Quit

		case "enter":
			return m.handleInput(m.textarea.Value())
		}

	case replyMsg:
		m.loading = false
		m.mode = m.ctrl.Mode()
		m.updateViewport()
		m.viewport.GotoBottom()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleInput dispatches slash commands or starts a turn
func (m Model) handleInput(raw string) (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return m, nil
	}

	switch {
	case input == "exit" || input == "quit" || input == "/exit" || input == "/quit":
		return m, tea.Quit

	case input == "/key":
		m.textarea.Reset()
		return m.openKeyEditor()

	case input == "/export" || strings.HasPrefix(input, "/export "):
		m.textarea.Reset()
		m.exportTranscript(strings.TrimSpace(strings.TrimPrefix(input, "/export")))
		return m, nil

	case input == "/copy":
		m.textarea.Reset()
		m.copyLastReply()
		return m, nil
	}

	turn, err := m.ctrl.Begin(input)
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyInput) && !errors.Is(err, chat.ErrBusy) {
			m.err = err
		}
		return m, nil
	}

	m.textarea.Reset()
	m.loading = true
	m.err = nil
	m.notice = ""
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.completeTurn(turn),
		m.spinner.Tick,
		animationTick(),
	)
}

// completeTurn settles turn off the UI goroutine
func (m Model) completeTurn(turn *chat.Turn) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return replyMsg{message: turn.Complete(ctx)}
	}
}

// exportTranscript writes the conversation log to path
func (m *Model) exportTranscript(path string) {
	m.err = nil
	m.notice = ""

	if path == "" {
		m.err = errors.New("usage: /export <path>")
		return
	}

	opts := transcript.DefaultOptions()
	opts.Format = transcript.FormatFromPath(path)
	opts.Model = m.cfg.Model
	opts.Mode = string(m.mode)

	if err := transcript.WriteFile(path, m.ctrl.Messages(), opts); err != nil {
		m.err = fmt.Errorf("export failed: %w", err)
		return
	}
	m.notice = fmt.Sprintf("Transcript written to %s", path)
}

// copyLastReply copies the most recent assistant reply to the clipboard
func (m *Model) copyLastReply() {
	m.err = nil
	m.notice = ""

	messages := m.ctrl.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].IsUser() {
			continue
		}
		if err := writeClipboard(messages[i].Text); err != nil {
			m.err = fmt.Errorf("copy failed: %w", err)
			return
		}
		m.notice = "Last reply copied to clipboard"
		return
	}
	m.notice = "Nothing to copy yet"
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.editingKey {
		return m.renderKeyEditor()
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("⚡ Groq Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.cfg.Model),
		hintStyle.Render("  •  "),
		m.renderMode(),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if len(m.ctrl.Messages()) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	} else if m.notice != "" {
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMode renders the online/offline indicator
func (m Model) renderMode() string {
	if m.mode == chat.ModeOnline {
		return onlineStyle.Render("● online")
	}
	return offlineStyle.Render("○ offline")
}

// renderWelcome renders the empty-conversation placeholder
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	hint := "Start a conversation by typing a message below"
	if m.mode == chat.ModeOffline {
		hint = "No API key set: replies come from the offline assistant. Type /key to add one"
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("⚡"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to Groq Chat"),
		"",
		welcomeStyle.Width(width).Render(hint),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the composing indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
	}
	for i := numDots; i < 3; i++ {
		dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Assistant is composing ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots.String())
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	bar := renderShortcuts([]shortcut{
		{"Enter", "Send"},
		{"Alt+Enter", "New line"},
		{"/key", "API key"},
		{"/export", "Save"},
		{"Esc", "Quit"},
	})
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content from the conversation log
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	opts := render.OptionsFromConfig(m.cfg, bubbleWidth-4)

	for i, msg := range m.ctrl.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.IsUser():
			content.WriteString(userLabelStyle.Render("● You") + "\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		case msg.IsError:
			content.WriteString(errorLabelStyle.Render("✗ Assistant") + "\n")
			content.WriteString(errorBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		default:
			content.WriteString(assistantLabelStyle.Render("⚡ Assistant") + "\n")
			content.WriteString(assistantBubbleStyle.Width(bubbleWidth).Render(render.Reply(msg.Text, opts)))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI and blocks until the user leaves
func RunChat(ctx context.Context, ctrl *chat.Controller, store config.CredentialStore, cfg config.Config) error {
	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	m := NewChatModel(ctx, ctrl, store, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
