// Package transcript exports the current conversation to Markdown or JSON.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/mongomentor/internal/conversation"
)

// Format represents the format for exporting conversations
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// DefaultTitle heads exported transcripts when no title is given
const DefaultTitle = "MongoMentor conversation"

// Options configures how a transcript is exported
type Options struct {
	Title      string
	Endpoint   string    // Answering endpoint, included as metadata when set
	ExportedAt time.Time // Defaults to time.Now()
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.ExportedAt.IsZero() {
		o.ExportedAt = time.Now()
	}
	return o
}

// FormatForPath picks JSON for .json files and Markdown otherwise
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// Markdown renders messages as a Markdown document
func Markdown(messages []conversation.Message, opts Options) string {
	opts = opts.withDefaults()

	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	if opts.Endpoint != "" {
		sb.WriteString("**Endpoint:** ")
		sb.WriteString(opts.Endpoint)
		sb.WriteString("\n")
	}
	sb.WriteString("**Exported:** ")
	sb.WriteString(opts.ExportedAt.Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		role := "You"
		if msg.Sender == conversation.SenderAssistant {
			role = "MongoMentor"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportDocument struct {
	Title      string                 `json:"title"`
	Endpoint   string                 `json:"endpoint,omitempty"`
	ExportedAt time.Time              `json:"exported_at"`
	Messages   []conversation.Message `json:"messages"`
}

// JSON renders messages as an indented JSON document
func JSON(messages []conversation.Message, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	doc := exportDocument{
		Title:      opts.Title,
		Endpoint:   opts.Endpoint,
		ExportedAt: opts.ExportedAt,
		Messages:   messages,
	}
	if doc.Messages == nil {
		doc.Messages = []conversation.Message{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return data, nil
}

// WriteFile exports messages to path, choosing the format by extension.
// Parent directories are created as needed.
func WriteFile(path string, messages []conversation.Message, opts Options) (Format, error) {
	format := FormatForPath(path)

	var data []byte
	switch format {
	case FormatJSON:
		var err error
		if data, err = JSON(messages, opts); err != nil {
			return format, err
		}
	default:
		data = []byte(Markdown(messages, opts))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return format, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return format, fmt.Errorf("failed to write transcript: %w", err)
	}
	return format, nil
}

// DefaultFileName returns a timestamped markdown file name for exports
func DefaultFileName(now time.Time) string {
	return "mongomentor-" + now.Format("20060102-150405") + ".md"
}
