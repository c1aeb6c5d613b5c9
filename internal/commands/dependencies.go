package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ragchat/ragchat/internal/api"
	"github.com/ragchat/ragchat/internal/config"
	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/render"
	"github.com/ragchat/ragchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunPage(ctx context.Context, page string, deps tui.PageDeps) error
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunPage(ctx context.Context, page string, deps tui.PageDeps) error {
	return tui.RunPage(ctx, page, deps)
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client overrides the HTTP client built from configuration.
	Client api.ClientInterface

	// TUI is the terminal user interface.
	TUI TUIInterface

	// LoadConfig reads user configuration; config.LoadConfig when nil.
	LoadConfig func() (config.Config, error)

	// Clipboard receives copied replies; the system clipboard when nil.
	Clipboard tui.Clipboard

	flags globalFlags
}

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	server  string
	session int
	verbose bool
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:        &DefaultTUI{},
		LoadConfig: config.LoadConfig,
	}
}

// runtime is what a command needs once configuration is resolved
type runtime struct {
	cfg      config.Config
	client   api.ClientInterface
	logger   *slog.Logger
	closeLog func()
}

func (r *runtime) Close() {
	r.client.Close()
	r.closeLog()
}

// resolveConfig loads configuration and applies the persistent flags. A
// load error comes back with whatever configuration could be read.
func (d *Dependencies) resolveConfig() (config.Config, error) {
	load := d.LoadConfig
	if load == nil {
		load = config.LoadConfig
	}
	cfg, err := load()

	if d.flags.server != "" {
		cfg.ServerURL = d.flags.server
	}
	if d.flags.session > 0 {
		cfg.SessionID = d.flags.session
	}
	if d.flags.verbose {
		cfg.Verbose = true
	}
	return cfg, err
}

// warnConfig reports a configuration problem without stopping the command
func warnConfig(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintln(cmd.ErrOrStderr(), warningText("⚠ Config: "+line))
	}
}

// setup resolves configuration and builds the API client
func (d *Dependencies) setup(cmd *cobra.Command) (*runtime, error) {
	cfg, err := d.resolveConfig()
	warnConfig(cmd, err)
	if cfg.TUITheme != "" {
		render.SetTUITheme(cfg.TUITheme)
	}
	logger, closeLog, err := config.OpenDebugLog(cfg)
	if err != nil {
		verbosef(cmd, cfg, "%v", err)
	}

	client := d.Client
	if client == nil {
		c, err := api.NewClient(
			api.WithBaseURL(cfg.ServerURL),
			api.WithTimeout(cfg.Timeout()),
			api.WithVersion(Version),
			api.WithLogger(logger),
		)
		if err != nil {
			closeLog()
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		client = c
	}

	return &runtime{cfg: cfg, client: client, logger: logger, closeLog: closeLog}, nil
}

// resolveSession returns the configured session, or asks the backend for
// its current one.
func (r *runtime) resolveSession(ctx context.Context) (int, error) {
	if r.cfg.SessionID > 0 {
		return r.cfg.SessionID, nil
	}
	s, err := r.client.CurrentSession(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve current session: %w", err)
	}
	if s == nil || s.ID <= 0 {
		return 0, fmt.Errorf("failed to resolve current session: %w", apierrors.ErrNoSession)
	}
	return s.ID, nil
}

func (d *Dependencies) ui() TUIInterface {
	if d.TUI == nil {
		return &DefaultTUI{}
	}
	return d.TUI
}

func (d *Dependencies) clipboard() tui.Clipboard {
	if d.Clipboard == nil {
		return tui.SystemClipboard{}
	}
	return d.Clipboard
}
