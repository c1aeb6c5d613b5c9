// Package commands provides CLI commands for ragchat.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ragchat/ragchat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// NewRootCmd builds the full command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:   "ragchat",
		Short: "Terminal client for a RAG chat backend",
		Long: `ragchat talks to a retrieval-augmented chat backend over its JSON API.
It shows the chat history of a session, sends messages, switches the
language model bound to the session and manages the documents used for
retrieval.

Examples:
  ragchat                               Open the chat for the current session
  ragchat --session 3 chat              Open the chat for session 3
  ragchat upload                        Upload and manage documents
  ragchat models                        Pick the model for the session
  ragchat settings                      Edit settings
  ragchat ask "What does the contract say about refunds?"
  ragchat docs upload ~/contract.pdf    Upload without the full-screen page
  ragchat history export notes.md       Export the chat history`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "ragchat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return runPage(cmd, deps, tui.PageChat)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&deps.flags.server, "server", "", "Backend base URL (overrides server_url)")
	pf.IntVar(&deps.flags.session, "session", 0, "Chat session ID (default: the backend's current session)")
	pf.BoolVar(&deps.flags.verbose, "verbose", false, "Print diagnostics and write ~/.ragchat/debug.log")
	root.Flags().BoolP("version", "v", false, "Show version and exit")

	root.AddCommand(
		NewChatCmd(deps),
		NewUploadCmd(deps),
		NewModelsCmd(deps),
		NewAskCmd(deps),
		NewDocsCmd(deps),
		NewRAGStatusCmd(deps),
		NewSessionCmd(deps),
		NewHistoryCmd(deps),
		NewConfigCmd(deps),
		NewSettingsCmd(deps),
	)

	return root
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		os.Exit(1)
	}
}
