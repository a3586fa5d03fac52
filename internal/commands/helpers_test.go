package commands

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	http "github.com/bogdanfinn/fhttp"
	"go.uber.org/zap"

	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
)

// stubDoer answers every completion request with a fixed response
type stubDoer struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []*http.Request
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	return &http.Response{
		StatusCode: d.status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(d.body)),
	}, nil
}

func (d *stubDoer) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

func replyBody(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`
}

// fakeTUI records launches instead of starting bubbletea
type fakeTUI struct {
	chatCalls   int
	configCalls int
	ctrl        *chat.Controller
	store       config.CredentialStore
	cfg         config.Config
}

func (f *fakeTUI) RunChat(ctx context.Context, ctrl *chat.Controller, store config.CredentialStore, cfg config.Config) error {
	f.chatCalls++
	f.ctrl = ctrl
	f.store = store
	f.cfg = cfg
	return nil
}

func (f *fakeTUI) RunConfig(cfg config.Config) error {
	f.configCalls++
	f.cfg = cfg
	return nil
}

// harness bundles injected dependencies and captured output
type harness struct {
	deps      *Dependencies
	store     *config.MemoryStore
	doer      *stubDoer
	tui       *fakeTUI
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	clipboard []string
	terminal  bool
	secret    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("GROQCHAT_HOME", t.TempDir())

	h := &harness{
		store:  config.NewMemoryStore(""),
		doer:   &stubDoer{status: 200, body: replyBody("Paris")},
		tui:    &fakeTUI{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	h.deps = &Dependencies{
		TUI: h.tui,
		NewStore: func(config.Config) (config.CredentialStore, error) {
			return h.store, nil
		},
		NewLogger: func(config.Config) (*zap.Logger, error) {
			return zap.NewNop(), nil
		},
		HTTPClient: h.doer,
		Clipboard: func(text string) error {
			h.clipboard = append(h.clipboard, text)
			return nil
		},
		ReadSecret: func(string) (string, error) {
			return h.secret, nil
		},
		IsTerminal: func() bool { return h.terminal },
		Stdout:     h.stdout,
		Stderr:     h.stderr,
	}
	return h
}

// run executes the command tree with args
func (h *harness) run(args ...string) error {
	cmd := NewRootCmd(h.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}
