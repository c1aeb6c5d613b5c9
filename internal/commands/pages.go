package commands

import (
	"github.com/spf13/cobra"

	"github.com/ragchat/ragchat/internal/tui"
)

// NewChatCmd creates the command that opens the chat page
func NewChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the chat page",
		Long: `Open the full-screen chat for a session.

The session comes from --session, the session_id config value or, when
neither is set, the backend's current session. Type /help in the input for
the available slash commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, deps, tui.PageChat)
		},
	}
}

// NewUploadCmd creates the command that opens the documents page
func NewUploadCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:     "upload",
		Aliases: []string{"documents"},
		Short:   "Open the documents page",
		Long: `Upload .txt, .pdf and .docx files for retrieval and manage the
documents already on the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, deps, tui.PageUpload)
		},
	}
}

// runPage resolves configuration and runs one full-screen page
func runPage(cmd *cobra.Command, deps *Dependencies, page string) error {
	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	sessionID := rt.cfg.SessionID
	if page == tui.PageChat {
		if sessionID, err = rt.resolveSession(ctx); err != nil {
			return err
		}
	}

	verbosef(cmd, rt.cfg, "Server: %s", rt.client.BaseURL())
	verbosef(cmd, rt.cfg, "Page: %s, session: %d", page, sessionID)

	return deps.ui().RunPage(ctx, page, tui.PageDeps{
		Client:    rt.client,
		SessionID: sessionID,
		Clipboard: deps.clipboard(),
		Config:    rt.cfg,
		Logger:    rt.logger,
	})
}

// NewSettingsCmd creates the command that opens the settings page
func NewSettingsCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Edit settings interactively",
		Long: `Edit the settings stored in the config file: verbose logging, clipboard
copy, request timeout, markdown style and TUI theme. Use 'ragchat config'
to change settings from scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, deps, tui.PageSettings)
		},
	}
}
