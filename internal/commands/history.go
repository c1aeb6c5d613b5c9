package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ragchat/ragchat/internal/api"
	"github.com/ragchat/ragchat/internal/config"
	"github.com/ragchat/ragchat/internal/history"
	"github.com/ragchat/ragchat/internal/models"
)

// NewHistoryCmd creates the chat history commands
func NewHistoryCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or export the session's chat history",
		Long:  `Print the chat history of a session, search it, or export it to Markdown or JSON.`,
	}

	var search string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, deps, search)
		},
	}
	showCmd.Flags().StringVarP(&search, "search", "s", "", "Only show messages containing this text")

	var format string
	exportCmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export the chat history to a file",
		Long: `Export the chat history. The format follows the file extension
(.json for JSON, Markdown otherwise). Without a path the file goes to the
export directory (export_dir) as session-<id>-<time>.md.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runHistoryExport(cmd, deps, path, format)
		},
	}
	exportCmd.Flags().StringVar(&format, "format", "markdown", "Format when no path is given: markdown or json")

	cmd.AddCommand(showCmd, exportCmd)
	return cmd
}

// loadTranscript fetches a session's messages, its info and model labels.
// Model labels are optional.
func loadTranscript(ctx context.Context, client api.ClientInterface, sessionID int) (history.Transcript, error) {
	tr := history.Transcript{Session: models.Session{ID: sessionID}}

	msgs, err := client.GetMessages(ctx, sessionID)
	if err != nil {
		return tr, fmt.Errorf("failed to load chat history: %w", err)
	}
	tr.Messages = msgs

	if s, err := client.GetSessionInfo(ctx, sessionID); err == nil && s != nil {
		tr.Session = *s
	}
	if list, err := client.ListModels(ctx); err == nil {
		tr.ModelLabels = make(map[string]string, len(list))
		for _, m := range list {
			tr.ModelLabels[m.Name] = m.Label()
		}
	}
	return tr, nil
}

func runHistoryShow(cmd *cobra.Command, deps *Dependencies, search string) error {
	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	sessionID, err := rt.resolveSession(ctx)
	if err != nil {
		return err
	}
	tr, err := loadTranscript(ctx, rt.client, sessionID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if search != "" {
		results := history.Search(tr.Messages, search)
		if len(results) == 0 {
			fmt.Fprintf(out, "No messages match %q.\n", search)
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(out, "[%d] %s: %s\n", r.Index+1, speaker(tr, r.Message), r.Snippet)
		}
		return nil
	}

	fmt.Fprintf(out, "Session: %d\n", tr.Session.ID)
	if tr.Session.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", tr.Session.Title)
	}
	fmt.Fprintf(out, "Messages: %d\n", len(tr.Messages))
	fmt.Fprintln(out)

	if len(tr.Messages) == 0 {
		fmt.Fprintln(out, "No messages yet.")
		return nil
	}

	for i, msg := range tr.Messages {
		header := fmt.Sprintf("[%d] %s (%s)", i+1, speaker(tr, msg), msg.Timestamp.Display())
		if msg.UsedRAG {
			header += " · RAG"
		}
		fmt.Fprintln(out, header+":")
		fmt.Fprintf(out, "  %s\n\n", strings.ReplaceAll(msg.Content, "\n", "\n  "))
	}
	return nil
}

// speaker names who wrote a message
func speaker(tr history.Transcript, msg models.Message) string {
	if msg.IsUser {
		return "You"
	}
	if l, ok := tr.ModelLabels[msg.ModelUsed]; ok && l != "" {
		return l
	}
	return msg.Avatar().Label
}

func runHistoryExport(cmd *cobra.Command, deps *Dependencies, path, format string) error {
	exportFormat := history.ExportFormat(strings.ToLower(format))
	if exportFormat != history.ExportFormatMarkdown && exportFormat != history.ExportFormatJSON {
		return fmt.Errorf("invalid format %q: use markdown or json", format)
	}

	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	sessionID, err := rt.resolveSession(ctx)
	if err != nil {
		return err
	}
	tr, err := loadTranscript(ctx, rt.client, sessionID)
	if err != nil {
		return err
	}

	now := time.Now()
	if path == "" {
		dir, err := config.GetExportDir(rt.cfg)
		if err != nil {
			return err
		}
		path = history.DefaultExportPath(dir, sessionID, exportFormat, now)
	} else {
		path = api.ExpandPath(path)
	}

	if err := tr.WriteFile(path, now); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d messages to %s\n", len(tr.Messages), path)
	return nil
}
