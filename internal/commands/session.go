package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
)

// NewSessionCmd creates the command that shows the active session
func NewSessionCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Show the chat session and its model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, deps)
		},
	}
}

func runSession(cmd *cobra.Command, deps *Dependencies) error {
	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	id, err := rt.resolveSession(ctx)
	if err != nil {
		return err
	}
	s, err := rt.client.GetSessionInfo(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil {
		return fmt.Errorf("failed to load session: %w", apierrors.ErrInvalidResponse)
	}

	label := s.ModelUsed
	if list, err := rt.client.ListModels(ctx); err == nil {
		label = models.ModelLabel(list, s.ModelUsed)
	}
	if label == "" {
		label = "—"
	}
	title := s.Title
	if title == "" {
		title = "—"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID: %d\n", s.ID)
	fmt.Fprintf(out, "Title: %s\n", title)
	fmt.Fprintf(out, "Model: %s\n", label)
	fmt.Fprintf(out, "Created: %s\n", s.CreatedAt.Display())
	fmt.Fprintf(out, "Server: %s\n", rt.client.BaseURL())
	return nil
}
