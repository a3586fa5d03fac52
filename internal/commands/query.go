package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/render"
	"github.com/diogo/groqchat/internal/tui"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#f55036"),
	lipgloss.Color("#ff7a45"),
	lipgloss.Color("#ffb86b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#ffb86b"),
	lipgloss.Color("#ff7a45"),
}

var (
	colorText     = lipgloss.Color("#e8e6e3")
	colorTextMute = lipgloss.Color("#5c5c5c")
	colorSuccess  = lipgloss.Color("#50fa7b")
	colorWarning  = lipgloss.Color("#f1fa8c")
	colorPrimary  = lipgloss.Color("#f55036")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)

// queryFlags are the one-shot output options
type queryFlags struct {
	file   string
	output string
	html   bool
	raw    bool
	copy   bool
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&q.output, "output", "o", "", "Save response to file")
	cmd.Flags().BoolVar(&q.html, "html", false, "Print the reply as display HTML")
	cmd.Flags().BoolVar(&q.raw, "raw", false, "Print the raw reply text only")
	cmd.Flags().BoolVar(&q.copy, "copy", false, "Copy the reply to the clipboard")
}

func newQueryCmd(a *app) *cobra.Command {
	qf := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query [prompt]",
		Short: "Send a single message and print the reply",
		Long: `Send one message and print the reply.

The prompt comes from the argument, from --file, or from stdin.
Without an API key the reply comes from the offline assistant.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, ok, err := readPrompt(a.deps, args, qf.file)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("no prompt given: pass an argument, --file or stdin")
			}
			return a.runQuery(cmd.Context(), prompt, qf)
		},
	}
	qf.register(cmd)
	return cmd
}

// readPrompt picks the prompt from --file, piped stdin or the argument.
// ok is false when none of them supplied one.
func readPrompt(deps *Dependencies, args []string, file string) (prompt string, ok bool, err error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if stdinIsPiped(deps.Stdin) {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// stdinIsPiped reports whether r carries input other than a terminal
func stdinIsPiped(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// runQuery executes a single turn and outputs the reply
func (a *app) runQuery(ctx context.Context, prompt string, qf *queryFlags) error {
	if qf.html && qf.raw {
		return errors.New("--html and --raw cannot be combined")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctrl, _, err := a.controller()
	if err != nil {
		return err
	}

	stderr := a.deps.Stderr
	decorated := !qf.raw && !qf.html && a.deps.IsTerminal()
	mode := ctrl.Mode()

	if a.cfg.Verbose && !qf.raw {
		fmt.Fprintf(stderr, "[verbose] Model: %s (%s)\n", a.cfg.Model, mode)
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(stderr, "Composing reply")
		spin.start()
	}

	startTime := time.Now()
	reply, err := ctrl.Submit(ctx, prompt)
	requestDuration := time.Since(startTime)

	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		if errors.Is(err, chat.ErrEmptyInput) {
			return errors.New("prompt cannot be empty")
		}
		return err
	}
	if spin != nil {
		if mode == chat.ModeOnline {
			spin.stopWithSuccess("Done")
		} else {
			spin.stopWithSuccess("Answered offline")
		}
	}

	a.logger.Debug("query answered",
		zap.String("mode", string(mode)),
		zap.Duration("took", requestDuration),
		zap.Bool("error", reply.IsError))

	if a.cfg.Verbose && !qf.raw {
		fmt.Fprintf(stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
	}

	if reply.IsError {
		return errors.New(reply.Text)
	}

	text := reply.Text
	out := text
	if qf.html {
		out = render.FormatForDisplay(text)
	}

	if qf.copy || a.cfg.CopyToClipboard {
		if err := a.deps.Clipboard(text); err != nil {
			fmt.Fprintln(stderr, warningStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if !qf.raw {
			fmt.Fprintln(stderr, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if qf.output != "" {
		if err := os.WriteFile(qf.output, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !qf.raw {
			fmt.Fprintln(stderr, successStyle.Render(fmt.Sprintf("✓ Response saved to %s", qf.output)))
		}
		return nil
	}

	stdout := a.deps.Stdout
	if !decorated {
		fmt.Fprint(stdout, out)
		if !qf.raw && !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(stdout)
		}
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	label := "⚡ Assistant"
	if mode == chat.ModeOffline {
		label = "⚡ Assistant (offline)"
	}
	fmt.Fprintln(stdout, assistantLabelStyle.Render(label))

	rendered := render.Reply(text, render.OptionsFromConfig(a.cfg, bubbleWidth-4))
	fmt.Fprintln(stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))

	return nil
}

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + s.frame) % len(gradientColors)
		charIdx := (i + s.frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)

	fmt.Fprintf(s.out, "\r\033[K%s %s %s %s", spinnerChar, bar.String(), msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", checkmark, successStyle.Render(message))
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// formatErrorMessage formats an error with context and structured details
func formatErrorMessage(err error, prefix string) string {
	if err == nil {
		return ""
	}
	return tui.FormatError(fmt.Errorf("%s: %w", prefix, err))
}
