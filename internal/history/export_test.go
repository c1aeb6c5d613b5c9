package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ragchat/ragchat/internal/models"
)

func sampleTranscript() Transcript {
	created := models.Timestamp{Time: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	return Transcript{
		Session: models.Session{ID: 4, Title: "Contracts", ModelUsed: models.ModelYandexGPT, CreatedAt: created},
		Messages: []models.Message{
			{ID: 1, Content: "What does clause 7 say?", IsUser: true},
			{ID: 2, Content: "Clause 7 covers termination.", UsedRAG: true, ModelUsed: models.ModelYandexGPT,
				Timestamp: models.Timestamp{Time: time.Date(2024, 5, 1, 9, 1, 0, 0, time.UTC)}},
		},
		ModelLabels: map[string]string{models.ModelYandexGPT: "YandexGPT"},
	}
}

func TestToMarkdown(t *testing.T) {
	md := sampleTranscript().ToMarkdown()

	for _, want := range []string{
		"# Contracts",
		"**Session:** 4",
		"**Model:** YandexGPT",
		"**Messages:** 2",
		"## User",
		"## YandexGPT (",
		" · RAG",
		"What does clause 7 say?",
		"Clause 7 covers termination.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	if strings.Index(md, "clause 7 say") > strings.Index(md, "covers termination") {
		t.Error("messages should keep server order")
	}
}

func TestToMarkdown_Untitled(t *testing.T) {
	md := Transcript{Session: models.Session{ID: 9}}.ToMarkdown()
	if !strings.Contains(md, "# Session 9") {
		t.Errorf("untitled session should fall back to its id:\n%s", md)
	}
	if strings.Contains(md, "**Model:**") {
		t.Error("no model line expected when the session has none")
	}
}

func TestToJSON(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	data, err := sampleTranscript().ToJSON(now)
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	var out exportTranscript
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.SessionID != 4 || out.Title != "Contracts" || !out.ExportedAt.Equal(now) {
		t.Errorf("header = %+v", out)
	}
	if len(out.Messages) != 2 || out.Messages[0].Role != "user" || out.Messages[1].Role != "assistant" {
		t.Fatalf("messages = %+v", out.Messages)
	}
	if !out.Messages[1].UsedRAG || out.Messages[1].ModelUsed != models.ModelYandexGPT {
		t.Errorf("assistant message = %+v", out.Messages[1])
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	tr := sampleTranscript()

	tests := []struct {
		name   string
		path   string
		format ExportFormat
	}{
		{name: "markdown", path: DefaultExportPath(filepath.Join(dir, "nested"), 4, ExportFormatMarkdown, now), format: ExportFormatMarkdown},
		{name: "json", path: DefaultExportPath(dir, 4, ExportFormatJSON, now), format: ExportFormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if FormatFromPath(tt.path) != tt.format {
				t.Errorf("FormatFromPath(%s) = %s", tt.path, FormatFromPath(tt.path))
			}
			if err := tr.WriteFile(tt.path, now); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}
			data, err := os.ReadFile(tt.path)
			if err != nil {
				t.Fatalf("read export: %v", err)
			}
			if !strings.Contains(string(data), "Contracts") {
				t.Errorf("export missing title: %s", data)
			}
		})
	}

	if got := filepath.Base(tests[1].path); got != "session-4-20240601-123045.json" {
		t.Errorf("DefaultExportPath() base = %s", got)
	}
}

func TestSearch(t *testing.T) {
	msgs := sampleTranscript().Messages

	results := Search(msgs, "CLAUSE 7")
	if len(results) != 2 {
		t.Fatalf("Search() = %d results, want 2", len(results))
	}
	if results[1].Index != 1 || !strings.Contains(results[1].Snippet, "termination") {
		t.Errorf("result = %+v", results[1])
	}

	if got := Search(msgs, "  "); got != nil {
		t.Errorf("blank query should match nothing, got %v", got)
	}
	if got := Search(msgs, "arbitration"); len(got) != 0 {
		t.Errorf("unexpected matches %v", got)
	}
}

func TestExtractSnippet(t *testing.T) {
	long := strings.Repeat("a", 80) + "needle" + strings.Repeat("b", 80)
	snippet := extractSnippet(long, "needle", 40)
	if !strings.HasPrefix(snippet, "...") || !strings.HasSuffix(snippet, "...") || !strings.Contains(snippet, "needle") {
		t.Errorf("extractSnippet() = %q", snippet)
	}

	if got := extractSnippet("short text", "text", 100); got != "short text" {
		t.Errorf("extractSnippet() = %q", got)
	}
	if got := extractSnippet("привет мир", "МИР", 100); got != "привет мир" {
		t.Errorf("extractSnippet() = %q", got)
	}
}
