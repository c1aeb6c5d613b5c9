package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ragchat/ragchat/internal/api"
	"github.com/ragchat/ragchat/internal/config"
	"github.com/ragchat/ragchat/internal/render"
)

// Page identifiers
const (
	PageChat     = "chat"
	PageUpload   = "upload"
	PageModels   = "models"
	PageSettings = "settings"
)

// PageDeps is everything a page controller may need
type PageDeps struct {
	Client    api.ClientInterface
	SessionID int
	Clipboard Clipboard
	Config    config.Config
	Logger    *slog.Logger
}

func (d PageDeps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (d PageDeps) renderOptions(width int) render.Options {
	return render.OptionsFromConfigWithWidth(d.Config, width)
}

// PageFactory builds a page controller
type PageFactory func(deps PageDeps) (tea.Model, error)

var (
	routerMu sync.RWMutex
	pages    = map[string]PageFactory{}
)

func init() {
	Register(PageChat, func(deps PageDeps) (tea.Model, error) { return NewChatModel(deps) })
	Register(PageUpload, func(deps PageDeps) (tea.Model, error) { return NewDocumentsModel(deps) })
	Register(PageModels, func(deps PageDeps) (tea.Model, error) { return NewModelsModel(deps) })
	Register(PageSettings, func(deps PageDeps) (tea.Model, error) { return NewSettingsModel(deps) })
}

// Register maps a page identifier to its controller factory, replacing any
// previous registration.
func Register(page string, factory PageFactory) {
	routerMu.Lock()
	defer routerMu.Unlock()
	pages[page] = factory
}

// Lookup returns the factory for page
func Lookup(page string) (PageFactory, bool) {
	routerMu.RLock()
	defer routerMu.RUnlock()
	f, ok := pages[page]
	return f, ok
}

// Pages returns the registered page identifiers in sorted order
func Pages() []string {
	routerMu.RLock()
	defer routerMu.RUnlock()
	names := make([]string, 0, len(pages))
	for name := range pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the controller for page without running it
func Build(page string, deps PageDeps) (tea.Model, error) {
	factory, ok := Lookup(page)
	if !ok {
		return nil, fmt.Errorf("unknown page %q (available: %v)", page, Pages())
	}
	if deps.Client == nil {
		return nil, fmt.Errorf("page %q: no API client", page)
	}
	return factory(deps)
}

// RunPage builds the controller for page and runs it full-screen until the
// user quits or ctx is cancelled.
func RunPage(ctx context.Context, page string, deps PageDeps) error {
	if deps.Config.TUITheme != "" && render.SetTUITheme(deps.Config.TUITheme) {
		UpdateTheme()
	}

	m, err := Build(page, deps)
	if err != nil {
		return err
	}

	deps.logger().Debug("page start", "page", page, "session_id", deps.SessionID)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
