package tui

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/render"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		wants []string
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("boom"), wants: []string{"✗ boom"}},
		{name: "api", err: apierrors.NewAPIError(404, "/api/documents/9", "Document not found"), wants: []string{"HTTP Status: 404", "Endpoint: /api/documents/9", "no longer exists"}},
		{name: "network", err: apierrors.NewNetworkError("/api/chat", errors.New("refused")), wants: []string{"Is the backend running?"}},
		{name: "upload", err: apierrors.NewUploadError("x.exe", 400, "Unsupported file type"), wants: []string{"HTTP Status: 400", ".docx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err)
			if tt.err == nil && got != "" {
				t.Errorf("FormatError(nil) = %q", got)
			}
			for _, want := range tt.wants {
				if !strings.Contains(got, want) {
					t.Errorf("FormatError() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestUpdateTheme(t *testing.T) {
	defer func() {
		render.SetTUITheme(render.DefaultTUITheme)
		UpdateTheme()
	}()

	for _, name := range render.TUIThemeNames() {
		if !render.SetTUITheme(name) {
			t.Fatalf("SetTUITheme(%q) = false", name)
		}
		UpdateTheme()
		if colorPrimary != render.GetTUITheme().Primary {
			t.Errorf("theme %s: colorPrimary not applied", name)
		}
	}
}

func TestNotice(t *testing.T) {
	var n *notice
	if n.View() != "" || n.Text() != "" {
		t.Error("nil notice should render empty")
	}

	tests := []struct {
		n      *notice
		prefix string
	}{
		{infoNotice("hello"), "• hello"},
		{successNotice("done"), "✓ done"},
		{errorNotice("failed"), "✗ failed"},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.n.View(), tt.prefix) {
			t.Errorf("View() = %q, want %q", tt.n.View(), tt.prefix)
		}
	}
}
