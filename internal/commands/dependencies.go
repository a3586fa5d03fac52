package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, ctrl *chat.Controller, store config.CredentialStore, cfg config.Config) error
	RunConfig(cfg config.Config) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// TUI is the terminal user interface.
	TUI TUIInterface

	// NewStore opens the credential store selected by the config.
	NewStore func(cfg config.Config) (config.CredentialStore, error)

	// NewLogger builds the logger for one invocation.
	NewLogger func(cfg config.Config) (*zap.Logger, error)

	// HTTPClient, when set, replaces the completion transport.
	HTTPClient api.HTTPDoer

	// Clipboard copies text to the system clipboard.
	Clipboard func(text string) error

	// ReadSecret prompts for a value without echoing it.
	ReadSecret func(prompt string) (string, error)

	// IsTerminal reports whether stdin and stdout are interactive.
	IsTerminal func() bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, ctrl *chat.Controller, store config.CredentialStore, cfg config.Config) error {
	return tui.RunChat(ctx, ctrl, store, cfg)
}

func (d *DefaultTUI) RunConfig(cfg config.Config) error {
	return tui.RunConfig(cfg)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:        &DefaultTUI{},
		NewStore:   config.NewCredentialStore,
		NewLogger:  newFileLogger,
		Clipboard:  clipboard.WriteAll,
		ReadSecret: readSecretFromTerminal,
		IsTerminal: isStdioTTY,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// readSecretFromTerminal reads a line with echo disabled
func readSecretFromTerminal(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// readLine reads one line from r
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// isStdioTTY returns true if both stdin and stdout are terminals
func isStdioTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
