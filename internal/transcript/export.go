// Package transcript writes the in-memory conversation log to a file on request.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/render"
)

// Format represents the format for exporting a transcript
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// Options configures how a transcript is exported
type Options struct {
	Format Format
	Title  string
	Model  string
	// Mode is "online" or "offline" at export time
	Mode string
}

// DefaultOptions returns sensible defaults for export
func DefaultOptions() Options {
	return Options{
		Format: FormatMarkdown,
		Title:  "groqchat transcript",
		Model:  models.DefaultModel,
	}
}

// ParseFormat accepts a format name or common alias
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected markdown, json or html)", s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to markdown
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if f, err := ParseFormat(ext); err == nil {
		return f
	}
	return FormatMarkdown
}

func senderLabel(m models.Message) string {
	if m.IsUser() {
		return "User"
	}
	return "Assistant"
}

// ToMarkdown renders the transcript as Markdown
func ToMarkdown(messages []models.Message, opts Options) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	if opts.Model != "" {
		sb.WriteString("**Model:** ")
		sb.WriteString(opts.Model)
		sb.WriteString("\n")
	}
	if opts.Mode != "" {
		sb.WriteString("**Mode:** ")
		sb.WriteString(opts.Mode)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(messages)))

	for i, msg := range messages {
		sb.WriteString("## ")
		sb.WriteString(senderLabel(msg))
		if !msg.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.CreatedAt.Local().Format("15:04:05"))
			sb.WriteString(")")
		}
		if msg.IsError {
			sb.WriteString(" [error]")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	IsError   bool      `json:"is_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type exportTranscript struct {
	Title      string          `json:"title"`
	Model      string          `json:"model,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []exportMessage `json:"messages"`
}

// ToJSON renders the transcript as indented JSON
func ToJSON(messages []models.Message, opts Options) ([]byte, error) {
	export := exportTranscript{
		Title:      opts.Title,
		Model:      opts.Model,
		Mode:       opts.Mode,
		ExportedAt: time.Now().UTC(),
		Messages:   make([]exportMessage, len(messages)),
	}

	for i, msg := range messages {
		export.Messages[i] = exportMessage{
			ID:        msg.ID,
			Sender:    string(msg.Sender),
			Text:      msg.Text,
			IsError:   msg.IsError,
			CreatedAt: msg.CreatedAt,
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// ToHTML renders a standalone page. Assistant turns are formatted with
// links and line breaks; user turns are escaped text.
func ToHTML(messages []models.Message, opts Options) string {
	var sb strings.Builder

	title := render.EscapeUserText(opts.Title)
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	sb.WriteString(title)
	sb.WriteString("</title>\n</head>\n<body>\n<h1>")
	sb.WriteString(title)
	sb.WriteString("</h1>\n<div class=\"chat-messages\">\n")

	for _, msg := range messages {
		class := "message ai-message"
		body := render.FormatForDisplay(msg.Text)
		if msg.IsUser() {
			class = "message user-message"
			body = render.EscapeUserText(msg.Text)
		}
		if msg.IsError {
			class += " error-message"
		}

		fmt.Fprintf(&sb, "<div class=\"%s\" id=\"msg-%s\">\n<div class=\"message-text\">%s</div>\n</div>\n",
			class, render.EscapeUserText(msg.ID), body)
	}

	sb.WriteString("</div>\n</body>\n</html>\n")
	return sb.String()
}

// Render produces the transcript bytes in opts.Format
func Render(messages []models.Message, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatMarkdown, "":
		return []byte(ToMarkdown(messages, opts)), nil
	case FormatJSON:
		return ToJSON(messages, opts)
	case FormatHTML:
		return []byte(ToHTML(messages, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", opts.Format)
	}
}

// WriteFile exports the transcript to path, owner read/write only
func WriteFile(path string, messages []models.Message, opts Options) error {
	if len(messages) == 0 {
		return fmt.Errorf("nothing to export: the conversation is empty")
	}

	data, err := Render(messages, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
