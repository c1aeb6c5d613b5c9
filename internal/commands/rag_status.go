package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ragchat/ragchat/internal/models"
)

// NewRAGStatusCmd creates the command that reports retrieval availability
func NewRAGStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "rag-status",
		Short: "Show whether answers can use uploaded documents",
		Long: `Show whether answers can use uploaded documents, with the backend's
embedding model. --verbose also prints the retrieval index location.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRAGStatus(cmd, deps)
		},
	}
}

func runRAGStatus(cmd *cobra.Command, deps *Dependencies) error {
	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	docs, err := rt.client.ListDocuments(ctx)
	if err != nil {
		fmt.Fprintln(out, dangerText("RAG: "+models.RAGStatusError().Text()))
		return fmt.Errorf("failed to load document list: %w", err)
	}

	status := models.RAGStatusFromDocuments(docs)
	line := fmt.Sprintf("RAG: %s (%d of %d documents processed)", status.Text(), status.Processed, status.Total)
	if status.Level == models.RAGAvailable {
		line = successText(line)
	} else {
		line = dimText(line)
	}
	fmt.Fprintln(out, line)

	// Index details are extra; the status line stands without them
	stats, err := rt.client.RAGStats(ctx)
	if err != nil || stats == nil {
		verbosef(cmd, rt.cfg, "Stats unavailable: %v", err)
		return nil
	}
	if stats.EmbeddingModel != "" {
		fmt.Fprintf(out, "Embedding model: %s\n", stats.EmbeddingModel)
	}
	verbosef(cmd, rt.cfg, "Index: %s", stats.IndexPath)
	if stats.TotalDocuments != status.Total {
		verbosef(cmd, rt.cfg, "Backend counts %d documents (%d processed)", stats.TotalDocuments, stats.ProcessedDocuments)
	}
	return nil
}
