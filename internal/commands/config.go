package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ragchat/ragchat/internal/config"
	"github.com/ragchat/ragchat/internal/render"
)

// NewConfigCmd creates the config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change ragchat settings stored in ~/.ragchat/config.json.

Environment variables (also read from .env) override the file:
  RAGCHAT_SERVER_URL, RAGCHAT_SESSION_ID, RAGCHAT_TIMEOUT,
  RAGCHAT_THEME, RAGCHAT_VERBOSE`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigShow(cmd, deps)
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting",
			Long:  "Change one setting. Keys: " + strings.Join(config.SettableKeys(), ", "),
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSet(cmd, deps, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "themes",
			Short: "List TUI themes and markdown styles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigThemes(cmd)
			},
		},
	)

	return cmd
}

func runConfigShow(cmd *cobra.Command, deps *Dependencies) error {
	cfg, err := deps.resolveConfig()
	warnConfig(cmd, err)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// runConfigSet changes one key in the config file. Environment overrides
// are not written back.
func runConfigSet(cmd *cobra.Command, deps *Dependencies, key, value string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}

	if strings.EqualFold(key, "tui_theme") {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", strings.ToLower(key), value)
	return nil
}

func runConfigThemes(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "TUI THEME\tDESCRIPTION")
	for _, name := range render.TUIThemeNames() {
		theme, _ := render.GetTUIThemeByName(name)
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, theme.Description)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "MARKDOWN STYLE\tDESCRIPTION")
	for _, s := range render.AvailableStyles() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description)
	}
	return w.Flush()
}
