package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ragchat/ragchat/internal/api"
	"github.com/ragchat/ragchat/internal/models"
)

// ragStatusMsg carries the outcome of a RAG status check
type ragStatusMsg struct {
	status models.RAGStatus
}

// checkRAGStatus lists documents and reduces them to a RAG status
func checkRAGStatus(client api.ClientInterface) tea.Cmd {
	return func() tea.Msg {
		docs, err := client.ListDocuments(context.Background())
		if err != nil {
			return ragStatusMsg{status: models.RAGStatusError()}
		}
		return ragStatusMsg{status: models.RAGStatusFromDocuments(docs)}
	}
}

// renderRAGStatus styles the status text by level
func renderRAGStatus(status models.RAGStatus, loaded bool) string {
	if !loaded {
		return mutedStyle.Render("RAG: checking…")
	}
	text := "RAG: " + status.Text()
	switch status.Level {
	case models.RAGAvailable:
		return successStyle.Render(text)
	case models.RAGError:
		return errorStyle.Render(text)
	default:
		return mutedStyle.Render(text)
	}
}
