package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ragchat/ragchat/internal/api"
	"github.com/ragchat/ragchat/internal/models"
)

// execCmd runs cmd and every batched command under it, returning the
// produced messages in order.
func execCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, execCmd(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// findMsg returns the first message of type T
func findMsg[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %d messages", zero, len(msgs))
	return zero
}

func hasQuit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// fakeClipboard records what was copied
type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func testModels() []models.LLMModel {
	return []models.LLMModel{
		{Name: models.ModelYandexGPT, DisplayName: "YandexGPT", Available: true},
		{Name: models.ModelLocalLLM, DisplayName: "Local LLM", Available: false, Reason: "Ollama is not running"},
		{Name: "mistral", DisplayName: "Mistral", Available: true},
	}
}

func newMockClient() *api.MockClient {
	return &api.MockClient{
		Models:      testModels(),
		SessionInfo: &models.Session{ID: 7, Title: "Chat 7", ModelUsed: models.ModelYandexGPT},
		Current:     &models.Session{ID: 7, Title: "Chat 7", ModelUsed: models.ModelYandexGPT},
		SwitchVal:   &models.SwitchResult{Success: true, SessionID: 7},
	}
}
