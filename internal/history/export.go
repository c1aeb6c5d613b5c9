// Package history exports and searches a session's chat history as fetched
// from the backend. Nothing here is persisted unless the user asks for an
// export file.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ragchat/ragchat/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// Transcript is one session's history as returned by the backend
type Transcript struct {
	Session  models.Session
	Messages []models.Message
	// ModelLabels maps backend model names to display names, optional
	ModelLabels map[string]string
}

func (t Transcript) label(name string) string {
	if name == "" {
		return "assistant"
	}
	if l, ok := t.ModelLabels[name]; ok && l != "" {
		return l
	}
	return name
}

func (t Transcript) title() string {
	if t.Session.Title != "" {
		return t.Session.Title
	}
	return fmt.Sprintf("Session %d", t.Session.ID)
}

// FormatFromPath picks the export format from a file extension
func FormatFromPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// ToMarkdown renders the transcript as a Markdown document
func (t Transcript) ToMarkdown() string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(t.title())
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("**Session:** %d\n", t.Session.ID))
	if t.Session.ModelUsed != "" {
		sb.WriteString("**Model:** ")
		sb.WriteString(t.label(t.Session.ModelUsed))
		sb.WriteString("\n")
	}
	if !t.Session.CreatedAt.IsZero() {
		sb.WriteString("**Created:** ")
		sb.WriteString(t.Session.CreatedAt.Display())
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(t.Messages)))

	for i, msg := range t.Messages {
		role := "User"
		if !msg.IsUser {
			role = t.label(msg.ModelUsed)
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !msg.Timestamp.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.Timestamp.Display())
			sb.WriteString(")")
		}
		if msg.UsedRAG {
			sb.WriteString(" · RAG")
		}
		sb.WriteString("\n\n")

		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

type exportMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	UsedRAG   bool      `json:"used_rag"`
	ModelUsed string    `json:"model_used,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

type exportTranscript struct {
	SessionID  int             `json:"session_id"`
	Title      string          `json:"title"`
	Model      string          `json:"model,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []exportMessage `json:"messages"`
}

// ToJSON renders the transcript as indented JSON
func (t Transcript) ToJSON(now time.Time) ([]byte, error) {
	out := exportTranscript{
		SessionID:  t.Session.ID,
		Title:      t.title(),
		Model:      t.Session.ModelUsed,
		CreatedAt:  t.Session.CreatedAt.Time,
		ExportedAt: now.UTC(),
		Messages:   make([]exportMessage, len(t.Messages)),
	}

	for i, msg := range t.Messages {
		role := "user"
		if !msg.IsUser {
			role = "assistant"
		}
		out.Messages[i] = exportMessage{
			Role:      role,
			Content:   msg.Content,
			UsedRAG:   msg.UsedRAG,
			ModelUsed: msg.ModelUsed,
			Timestamp: msg.Timestamp.Time,
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

// DefaultExportPath returns <dir>/session-<id>-<timestamp>.<ext>
func DefaultExportPath(dir string, sessionID int, format ExportFormat, now time.Time) string {
	ext := ".md"
	if format == ExportFormatJSON {
		ext = ".json"
	}
	name := fmt.Sprintf("session-%d-%s%s", sessionID, now.Format("20060102-150405"), ext)
	return filepath.Join(dir, name)
}

// WriteFile exports the transcript to path, choosing the format from the
// extension. Parent directories are created as needed.
func (t Transcript) WriteFile(path string, now time.Time) error {
	var data []byte
	switch FormatFromPath(path) {
	case ExportFormatJSON:
		b, err := t.ToJSON(now)
		if err != nil {
			return fmt.Errorf("failed to encode transcript: %w", err)
		}
		data = b
	default:
		data = []byte(t.ToMarkdown())
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
