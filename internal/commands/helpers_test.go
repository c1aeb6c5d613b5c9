package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ragchat/ragchat/internal/api"
	"github.com/ragchat/ragchat/internal/config"
	"github.com/ragchat/ragchat/internal/models"
	"github.com/ragchat/ragchat/internal/tui"
)

// fakeTUI records the page a command asked to run
type fakeTUI struct {
	page  string
	deps  tui.PageDeps
	calls int
	err   error
}

func (f *fakeTUI) RunPage(ctx context.Context, page string, deps tui.PageDeps) error {
	f.calls++
	f.page = page
	f.deps = deps
	return f.err
}

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestClient() *api.MockClient {
	return &api.MockClient{
		Current:     &models.Session{ID: 7, Title: "Contracts", ModelUsed: models.ModelYandexGPT},
		SessionInfo: &models.Session{ID: 7, Title: "Contracts", ModelUsed: models.ModelYandexGPT},
		Models: []models.LLMModel{
			{Name: models.ModelYandexGPT, DisplayName: "YandexGPT", Available: true},
			{Name: models.ModelLocalLLM, DisplayName: "Local LLM", Available: false, Reason: "Ollama is not running"},
		},
		SwitchVal: &models.SwitchResult{Success: true, SessionID: 7},
		ChatVal:   &models.ChatReply{Response: "Forty-two.", UsedRAG: true, ModelUsed: models.ModelYandexGPT},
	}
}

type testEnv struct {
	deps      *Dependencies
	client    *api.MockClient
	ui        *fakeTUI
	clipboard *fakeClipboard
	cfg       config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	env := &testEnv{
		client:    newTestClient(),
		ui:        &fakeTUI{},
		clipboard: &fakeClipboard{},
		cfg:       config.DefaultConfig(),
	}
	env.deps = &Dependencies{
		Client:     env.client,
		TUI:        env.ui,
		Clipboard:  env.clipboard,
		LoadConfig: func() (config.Config, error) { return env.cfg, nil },
	}
	return env
}

// run executes the command tree with args and captures its output
func (e *testEnv) run(stdin string, args ...string) (string, string, error) {
	root := NewRootCmd(e.deps)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}
