package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
)

type fakeCompleter struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, credential, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply, f.err
}

// newTestModel returns a sized chat model
func newTestModel(t *testing.T, store config.CredentialStore, remote chat.Completer) Model {
	t.Helper()
	ctrl := chat.NewController(store, remote)
	m := NewChatModel(context.Background(), ctrl, store, config.DefaultConfig())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// send types text into the input and presses Enter
func send(m Model, text string) (Model, tea.Cmd) {
	m.textarea.SetValue(text)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

// findReply runs cmd, unwrapping batches, until it yields a replyMsg
func findReply(t *testing.T, cmd tea.Cmd) replyMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	switch msg := cmd().(type) {
	case replyMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if reply, ok := c().(replyMsg); ok {
				return reply
			}
		}
	}
	t.Fatal("no replyMsg produced")
	return replyMsg{}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewChatModel_Mode(t *testing.T) {
	offline := newTestModel(t, config.NewMemoryStore(""), &fakeCompleter{})
	if offline.mode != chat.ModeOffline {
		t.Errorf("mode = %s, want offline", offline.mode)
	}

	online := newTestModel(t, config.NewMemoryStore("gsk_live"), &fakeCompleter{})
	if online.mode != chat.ModeOnline {
		t.Errorf("mode = %s, want online", online.mode)
	}
}

func TestModel_View_NotReady(t *testing.T) {
	ctrl := chat.NewController(config.NewMemoryStore(""), nil)
	m := NewChatModel(context.Background(), ctrl, nil, config.DefaultConfig())

	if !strings.Contains(m.View(), "Initializing") {
		t.Error("View should show initializing before the first size message")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	m := newTestModel(t, config.NewMemoryStore(""), nil)

	if !m.ready {
		t.Fatal("model should be ready after WindowSizeMsg")
	}
	if m.viewport.Width != 96 {
		t.Errorf("viewport width = %d, want 96", m.viewport.Width)
	}
	if m.viewport.Height < 5 {
		t.Errorf("viewport height = %d, want >= 5", m.viewport.Height)
	}
}

func TestModel_Submit_Offline(t *testing.T) {
	remote := &fakeCompleter{reply: "never"}
	m := newTestModel(t, config.NewMemoryStore(""), remote)

	m, cmd := send(m, "hello there")

	if !m.loading {
		t.Error("model should be loading after submit")
	}
	if m.ctrl.State() != chat.StateAwaiting {
		t.Errorf("state = %s, want awaiting", m.ctrl.State())
	}
	if m.textarea.Value() != "" {
		t.Error("input should be cleared after submit")
	}

	reply := findReply(t, cmd)
	if reply.message.Text != m.ctrl.OfflineReply("hello there") {
		t.Errorf("reply = %q, want the offline greeting", reply.message.Text)
	}
	if remote.calls != 0 {
		t.Errorf("remote called %d times without a credential", remote.calls)
	}

	updated, _ := m.Update(reply)
	m = updated.(Model)
	if m.loading {
		t.Error("loading should clear once the reply arrives")
	}
	if got := len(m.ctrl.Messages()); got != 2 {
		t.Errorf("log has %d messages, want 2", got)
	}
}

func TestModel_Submit_Online(t *testing.T) {
	remote := &fakeCompleter{reply: "Paris"}
	m := newTestModel(t, config.NewMemoryStore("gsk_live"), remote)

	m, cmd := send(m, "What is the capital of France?")
	reply := findReply(t, cmd)

	if reply.message.Text != "Paris" {
		t.Errorf("reply = %q, want Paris", reply.message.Text)
	}
	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1", remote.calls)
	}
}

func TestModel_Submit_CredentialFailureShowsErrorTurn(t *testing.T) {
	store := config.NewMemoryStore("")
	store.GetErr = errors.New("keyring locked")
	m := newTestModel(t, store, &fakeCompleter{})

	_, cmd := send(m, "hi")
	reply := findReply(t, cmd)

	if !reply.message.IsError {
		t.Error("reply should be flagged as an error turn")
	}
	if reply.message.Text != chat.ApologyText {
		t.Errorf("reply = %q, want apology", reply.message.Text)
	}
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(t, config.NewMemoryStore(""), nil)

	m, cmd := send(m, "   \n  ")

	if cmd != nil {
		t.Error("blank input should not produce a command")
	}
	if m.loading {
		t.Error("blank input should not start a turn")
	}
	if len(m.ctrl.Messages()) != 0 {
		t.Error("blank input should not be logged")
	}
}

func TestModel_KeysIgnoredWhileLoading(t *testing.T) {
	m := newTestModel(t, config.NewMemoryStore(""), nil)
	m, _ = send(m, "first")

	m, cmd := send(m, "second")

	if cmd != nil {
		t.Error("Enter while awaiting should be a no-op")
	}
	if got := len(m.ctrl.Messages()); got != 1 {
		t.Errorf("log has %d messages, want 1", got)
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if isQuit(cmd) {
		t.Error("Esc should not quit while awaiting")
	}
	m = updated.(Model)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !isQuit(cmd) {
		t.Error("Ctrl+C should always quit")
	}
}

func TestModel_ExitCommands(t *testing.T) {
	for _, input := range []string{"exit", "quit", "/exit", "/quit"} {
		t.Run(input, func(t *testing.T) {
			m := newTestModel(t, config.NewMemoryStore(""), nil)
			m, cmd := send(m, input)

			if !isQuit(cmd) {
				t.Errorf("%q should quit", input)
			}
			if len(m.ctrl.Messages()) != 0 {
				t.Errorf("%q should not be sent as a message", input)
			}
		})
	}
}

func TestModel_AltEnterInsertsNewline(t *testing.T) {
	m := newTestModel(t, config.NewMemoryStore(""), nil)
	m.textarea.SetValue("line one")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = updated.(Model)

	if !strings.Contains(m.textarea.Value(), "\n") {
		t.Errorf("alt+enter should insert a newline, got %q", m.textarea.Value())
	}
	if len(m.ctrl.Messages()) != 0 {
		t.Error("alt+enter should not submit")
	}
}

func TestModel_AnimationTick(t *testing.T) {
	m := newTestModel(t, config.NewMemoryStore(""), nil)

	updated, _ := m.Update(animationTickMsg{})
	if updated.(Model).animationFrame != 0 {
		t.Error("animation should not advance while idle")
	}

	m, _ = send(m, "hello")
	updated, cmd := m.Update(animationTickMsg{})
	if updated.(Model).animationFrame != 1 {
		t.Errorf("animationFrame = %d, want 1", updated.(Model).animationFrame)
	}
	if cmd == nil {
		t.Error("animation tick should schedule the next tick while loading")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t, config.NewMemoryStore(""), nil)

	view := m.View()
	if !strings.Contains(view, "Groq Chat") {
		t.Error("header should contain the title")
	}
	if !strings.Contains(view, "offline") {
		t.Error("header should show the offline indicator")
	}
	if !strings.Contains(view, "/key") {
		t.Error("welcome should point at /key when offline")
	}

	m, _ = send(m, "hello")
	if !strings.Contains(m.View(), "composing") {
		t.Error("composing indicator should show while awaiting")
	}
}

func TestModel_KeyEditor_SaveAndRemove(t *testing.T) {
	store := config.NewMemoryStore("")
	m := newTestModel(t, store, &fakeCompleter{})

	updated, _ := send(m, "/key")
	m = updated
	if !m.editingKey {
		t.Fatal("/key should open the key editor")
	}
	if len(m.ctrl.Messages()) != 0 {
		t.Error("/key should not be sent as a message")
	}

	m.keyInput.SetValue("gsk_abcdefghijklmnop")
	if strings.Contains(m.View(), "gsk_abcdefghijklmnop") {
		t.Error("key editor should mask the credential")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.editingKey {
		t.Error("Enter should close the key editor")
	}
	if got, _ := store.Get(); got != "gsk_abcdefghijklmnop" {
		t.Errorf("stored key = %q", got)
	}
	if m.mode != chat.ModeOnline {
		t.Errorf("mode = %s, want online after saving a key", m.mode)
	}
	if !strings.Contains(m.notice, "saved") {
		t.Errorf("notice = %q", m.notice)
	}

	m, _ = send(m, "/key")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if _, err := store.Get(); err == nil {
		t.Error("saving an empty key should remove it")
	}
	if m.mode != chat.ModeOffline {
		t.Errorf("mode = %s, want offline after removing the key", m.mode)
	}
}

func TestModel_KeyEditor_Cancel(t *testing.T) {
	store := config.NewMemoryStore("gsk_original")
	m := newTestModel(t, store, &fakeCompleter{})

	m, _ = send(m, "/key")
	m.keyInput.SetValue("gsk_other")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.editingKey {
		t.Error("Esc should close the key editor")
	}
	if got, _ := store.Get(); got != "gsk_original" {
		t.Errorf("stored key = %q, want it unchanged", got)
	}
}

func TestModel_Export(t *testing.T) {
	m := newTestModel(t, config.NewMemoryStore(""), nil)
	m, cmd := send(m, "hello")
	next, _ := m.Update(findReply(t, cmd))
	m = next.(Model)

	path := filepath.Join(t.TempDir(), "chat.md")
	m, _ = send(m, "/export "+path)

	if m.err != nil {
		t.Fatalf("export failed: %v", m.err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("transcript not written: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Error("transcript should contain the user message")
	}
	if len(m.ctrl.Messages()) != 2 {
		t.Error("/export should not be sent as a message")
	}
}

func TestModel_Export_Errors(t *testing.T) {
	m := newTestModel(t, config.NewMemoryStore(""), nil)

	m, _ = send(m, "/export")
	if m.err == nil {
		t.Error("/export without a path should report usage")
	}

	m, _ = send(m, "/export "+filepath.Join(t.TempDir(), "empty.json"))
	if m.err == nil {
		t.Error("exporting an empty conversation should fail")
	}
}

func TestModel_CopyLastReply(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m := newTestModel(t, config.NewMemoryStore("gsk_live"), &fakeCompleter{reply: "Paris"})

	m, _ = send(m, "/copy")
	if m.notice != "Nothing to copy yet" {
		t.Errorf("notice = %q", m.notice)
	}

	m, cmd := send(m, "capital of France?")
	next, _ := m.Update(findReply(t, cmd))
	m = next.(Model)

	m, _ = send(m, "/copy")
	if copied != "Paris" {
		t.Errorf("copied %q, want Paris", copied)
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("nil error should format to empty string")
	}
	if !strings.Contains(FormatError(errors.New("boom")), "boom") {
		t.Error("formatted error should contain the message")
	}
}
