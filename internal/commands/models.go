package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ragchat/ragchat/internal/models"
	"github.com/ragchat/ragchat/internal/tui"
)

// NewModelsCmd creates the models command. Without a subcommand it opens
// the models page.
func NewModelsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Pick the language model for the session",
		Long: `Open the models page, or list and switch models directly:
  ragchat models list
  ragchat models use local_llm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, deps, tui.PageModels)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List models and their availability",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runModelsList(cmd, deps)
			},
		},
		&cobra.Command{
			Use:   "use <name>",
			Short: "Bind a model to the session",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runModelsUse(cmd, deps, args[0])
			},
		},
	)

	return cmd
}

func runModelsList(cmd *cobra.Command, deps *Dependencies) error {
	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	list, err := rt.client.ListModels(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	// The active marker is best effort; the list is useful without it
	active := ""
	if id, err := rt.resolveSession(cmd.Context()); err == nil {
		if s, err := rt.client.GetSessionInfo(cmd.Context(), id); err == nil && s != nil {
			active = s.ModelUsed
		}
	} else {
		verbosef(cmd, rt.cfg, "No session: %v", err)
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No models configured.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "\tNAME\tDISPLAY NAME\tSTATUS")
	for _, m := range list {
		marker := ""
		if m.Name == active {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", marker, m.Name, m.Label(), availabilityText(m))
	}
	return w.Flush()
}

// availabilityText is the plain badge text for a model
func availabilityText(m models.LLMModel) string {
	if m.Available {
		return "✓ Available"
	}
	return "⚠ Unavailable: " + m.UnavailableReason()
}

// runModelsUse switches the session's model. Unknown and unavailable
// models are rejected before the switch request.
func runModelsUse(cmd *cobra.Command, deps *Dependencies, name string) error {
	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	list, err := rt.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}
	target, ok := models.FindModel(list, name)
	if !ok {
		return fmt.Errorf("unknown model %q", name)
	}
	if !target.Available {
		return fmt.Errorf("model %s is unavailable: %s", target.Label(), target.UnavailableReason())
	}

	sessionID, err := rt.resolveSession(ctx)
	if err != nil {
		return err
	}

	if _, err := rt.client.SwitchModel(ctx, target.Name, sessionID); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), dangerText("Failed to switch model"))
		return fmt.Errorf("failed to switch model: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Model switched successfully: session %d now uses %s\n", sessionID, target.Label())
	return nil
}
