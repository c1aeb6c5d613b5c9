package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/ragchat/ragchat/internal/api"
	"github.com/ragchat/ragchat/internal/config"
	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/history"
	"github.com/ragchat/ragchat/internal/models"
	"github.com/ragchat/ragchat/internal/render"
)

// Fixed user-facing texts of the chat page
const (
	textHistoryError  = "Failed to load chat history"
	textNoResponse    = "❌ Failed to get a response from the server."
	textErrorPrefix   = "❌ Error: "
	textSwitchOK      = "Model switched successfully"
	textSwitchFailed  = "Failed to switch model"
	textProcessing    = "Processing your request…"
	ragMarker         = "📚 RAG"
	modelLabelMissing = "unavailable"
)

// Message types for the chat page
type (
	historyLoadedMsg struct {
		messages []models.Message
		err      error
	}
	selectorLoadedMsg struct {
		models  []models.LLMModel
		session *models.Session
		err     error
	}
	chatReplyMsg struct {
		reply *models.ChatReply
		err   error
	}
	modelSwitchedMsg struct {
		name string
		err  error
	}
	modelsRefreshedMsg struct {
		models []models.LLMModel
		err    error
	}
	clipboardMsg struct {
		err error
	}
	exportDoneMsg struct {
		path string
		err  error
	}
)

// entryKind distinguishes history entries
type entryKind int

const (
	entryMessage entryKind = iota
	entryIndicator
	entryError
)

// chatEntry is one rendered row of the history
type chatEntry struct {
	kind    entryKind
	message models.Message
	text    string
}

// ChatModel is the chat page: history, model selector and the send form
type ChatModel struct {
	client    api.ClientInterface
	sessionID int
	clipboard Clipboard
	cfg       config.Config
	logger    *slog.Logger
	deps      PageDeps

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// History
	entries   []chatEntry
	sending   bool
	lastReply string

	// Model selector
	models         []models.LLMModel
	session        *models.Session
	activeModel    string
	modelLabel     string
	selectorLoaded bool
	selectorErr    error
	selecting      bool
	selectorCursor int
	switching      bool

	// RAG status
	rag       models.RAGStatus
	ragLoaded bool

	notice *notice

	ready  bool
	width  int
	height int
}

// NewChatModel creates the chat page for deps.SessionID
func NewChatModel(deps PageDeps) (ChatModel, error) {
	if deps.SessionID <= 0 {
		return ChatModel{}, apierrors.ErrNoSession
	}

	ta := textarea.New()
	ta.Placeholder = "Ask something about your documents… (/ for commands)"
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	clip := deps.Clipboard
	if clip == nil {
		clip = SystemClipboard{}
	}

	return ChatModel{
		client:    deps.Client,
		sessionID: deps.SessionID,
		clipboard: clip,
		cfg:       deps.Config,
		logger:    deps.logger(),
		deps:      deps,
		textarea:  ta,
		spinner:   s,
		viewport:  viewport.New(76, 10),
	}, nil
}

// Init loads history, the model selector and the RAG status
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.loadChatHistory(),
		m.loadModelsAndSetSelector(),
		checkRAGStatus(m.client),
	)
}

// loadChatHistory fetches the session's messages
func (m ChatModel) loadChatHistory() tea.Cmd {
	client, id := m.client, m.sessionID
	return func() tea.Msg {
		msgs, err := client.GetMessages(context.Background(), id)
		return historyLoadedMsg{messages: msgs, err: err}
	}
}

// loadModelsAndSetSelector fetches the model list and the session info
// concurrently and reports only after both settled.
func (m ChatModel) loadModelsAndSetSelector() tea.Cmd {
	client, id := m.client, m.sessionID
	return func() tea.Msg {
		var (
			list    []models.LLMModel
			session *models.Session
		)
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			var err error
			list, err = client.ListModels(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			session, err = client.GetSessionInfo(ctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return selectorLoadedMsg{err: err}
		}
		return selectorLoadedMsg{models: list, session: session}
	}
}

// sendMessage posts one chat message
func (m ChatModel) sendMessage(text string) tea.Cmd {
	client, id := m.client, m.sessionID
	return func() tea.Msg {
		reply, err := client.SendChat(context.Background(), text, id)
		return chatReplyMsg{reply: reply, err: err}
	}
}

// switchModel binds name to the session
func (m ChatModel) switchModel(name string) tea.Cmd {
	client, id := m.client, m.sessionID
	return func() tea.Msg {
		_, err := client.SwitchModel(context.Background(), name, id)
		return modelSwitchedMsg{name: name, err: err}
	}
}

func (m ChatModel) refreshModels() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		list, err := client.ListModels(context.Background())
		return modelsRefreshedMsg{models: list, err: err}
	}
}

func (m ChatModel) copyToClipboard(text string) tea.Cmd {
	clip := m.clipboard
	return func() tea.Msg {
		return clipboardMsg{err: clip.WriteAll(text)}
	}
}

func (m ChatModel) exportHistory(path string) tea.Cmd {
	tr := m.transcript()
	cfg := m.cfg
	return func() tea.Msg {
		now := time.Now()
		if path == "" {
			dir, err := config.GetExportDir(cfg)
			if err != nil {
				return exportDoneMsg{err: err}
			}
			path = history.DefaultExportPath(dir, tr.Session.ID, history.ExportFormatMarkdown, now)
		} else {
			path = api.ExpandPath(path)
		}
		if err := tr.WriteFile(path, now); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{path: path}
	}
}

// transcript snapshots the rendered messages for export
func (m ChatModel) transcript() history.Transcript {
	tr := history.Transcript{ModelLabels: map[string]string{}}
	if m.session != nil {
		tr.Session = *m.session
	} else {
		tr.Session = models.Session{ID: m.sessionID, ModelUsed: m.activeModel}
	}
	for _, lm := range m.models {
		tr.ModelLabels[lm.Name] = lm.Label()
	}
	for _, e := range m.entries {
		if e.kind == entryMessage {
			tr.Messages = append(tr.Messages, e.message)
		}
	}
	return tr
}

// Update handles messages and updates the model
func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selecting {
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.updateSelector(key)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 2
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4
		if contentWidth < 20 {
			contentWidth = 20
		}

		m.viewport.Width = contentWidth - 4
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(contentWidth - 4)
		m.ready = true
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+o":
			return m.openSelector()
		case "enter":
			return m.submit()
		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case historyLoadedMsg:
		m.applyHistory(msg)

	case selectorLoadedMsg:
		m.selectorLoaded = true
		m.selectorErr = msg.err
		if msg.err != nil {
			m.logger.Debug("selector load failed", "error", msg.err)
			m.models = nil
			m.modelLabel = modelLabelMissing
		} else {
			m.models = msg.models
			if msg.session != nil {
				session := *msg.session
				m.session = &session
				m.activeModel = session.ModelUsed
			}
			m.modelLabel = models.ModelLabel(m.models, m.activeModel)
			m.selectorCursor = m.indexOfModel(m.activeModel)
		}

	case chatReplyMsg:
		cmds = append(cmds, m.applyReply(msg)...)

	case modelSwitchedMsg:
		m.switching = false
		if msg.err != nil {
			m.logger.Debug("switch model failed", "model", msg.name, "error", msg.err)
			m.notice = errorNotice(textSwitchFailed)
			break
		}
		m.activeModel = msg.name
		if m.session != nil {
			m.session.ModelUsed = msg.name
		}
		m.modelLabel = models.ModelLabel(m.models, msg.name)
		m.notice = successNotice(textSwitchOK)
		cmds = append(cmds, m.refreshModels())

	case modelsRefreshedMsg:
		if msg.err == nil {
			m.models = msg.models
			m.selectorErr = nil
			m.modelLabel = models.ModelLabel(m.models, m.activeModel)
		}

	case ragStatusMsg:
		m.rag = msg.status
		m.ragLoaded = true

	case clipboardMsg:
		if msg.err != nil {
			m.notice = errorNotice(fmt.Sprintf("Failed to copy: %v", msg.err))
		} else {
			m.notice = successNotice("Copied last reply to clipboard")
		}

	case exportDoneMsg:
		if msg.err != nil {
			m.notice = errorNotice(fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			m.notice = successNotice("Exported to " + msg.path)
		}

	case spinner.TickMsg:
		if m.sending {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.refreshViewport()
		}
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(key)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// submit handles Enter in the input
func (m ChatModel) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" || m.sending {
		return m, nil
	}

	if strings.HasPrefix(input, "/") {
		if next, cmd, handled := m.runCommand(input); handled {
			return next, cmd
		}
	}

	m.notice = nil
	m.appendMessage(input, true, false, "")
	m.textarea.Reset()
	m.entries = append(m.entries, chatEntry{kind: entryIndicator})
	m.sending = true
	m.refreshViewport()

	return m, tea.Batch(m.sendMessage(input), m.spinner.Tick)
}

// runCommand executes a slash command. Unknown commands are sent as text.
func (m ChatModel) runCommand(input string) (tea.Model, tea.Cmd, bool) {
	fields := strings.Fields(input)
	arg := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch fields[0] {
	case "/quit", "/exit":
		return m, tea.Quit, true

	case "/model", "/models":
		m.textarea.Reset()
		next, cmd := m.openSelector()
		return next, cmd, true

	case "/refresh":
		m.textarea.Reset()
		m.notice = infoNotice("Reloading history…")
		return m, m.loadChatHistory(), true

	case "/rag":
		m.textarea.Reset()
		m.ragLoaded = false
		return m, checkRAGStatus(m.client), true

	case "/copy":
		m.textarea.Reset()
		if m.lastReply == "" {
			m.notice = infoNotice("Nothing to copy yet")
			return m, nil, true
		}
		return m, m.copyToClipboard(m.lastReply), true

	case "/export":
		m.textarea.Reset()
		return m, m.exportHistory(arg), true

	case "/help":
		m.textarea.Reset()
		m.notice = infoNotice("/model  /refresh  /rag  /copy  /export [path]  /quit")
		return m, nil, true
	}

	return m, nil, false
}

// applyHistory replaces the history with a fresh fetch. An outstanding
// request keeps its indicator so it is still removed exactly once.
func (m *ChatModel) applyHistory(msg historyLoadedMsg) {
	if m.notice != nil && m.notice.kind == noticeInfo {
		m.notice = nil
	}

	if msg.err != nil {
		m.logger.Debug("history load failed", "session_id", m.sessionID, "error", msg.err)
		m.entries = []chatEntry{{kind: entryError, text: textHistoryError}}
	} else {
		m.entries = make([]chatEntry, 0, len(msg.messages))
		for _, hm := range msg.messages {
			m.entries = append(m.entries, chatEntry{kind: entryMessage, message: hm})
			if !hm.IsUser {
				m.lastReply = hm.Content
			}
		}
	}

	if m.sending {
		m.entries = append(m.entries, chatEntry{kind: entryIndicator})
	}
	m.refreshViewport()
}

// applyReply settles an outstanding chat request
func (m *ChatModel) applyReply(msg chatReplyMsg) []tea.Cmd {
	var cmds []tea.Cmd

	m.removeIndicator()
	m.sending = false

	switch {
	case msg.err != nil:
		m.logger.Debug("chat request failed", "session_id", m.sessionID, "error", msg.err)
		m.appendMessage(textNoResponse, false, false, "")
	case msg.reply.Failed():
		m.appendMessage(textErrorPrefix+msg.reply.Error, false, false, "")
	default:
		m.appendMessage(msg.reply.Response, false, msg.reply.UsedRAG, msg.reply.ModelUsed)
		m.lastReply = msg.reply.Response
		if m.cfg.CopyToClipboard {
			cmds = append(cmds, m.copyToClipboard(msg.reply.Response))
		}
	}

	m.refreshViewport()
	return cmds
}

// removeIndicator drops the processing indicator. It reports whether one
// was present.
func (m *ChatModel) removeIndicator() bool {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].kind == entryIndicator {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

// appendMessage adds one message entry. Callers scroll afterwards.
func (m *ChatModel) appendMessage(text string, isUser, usedRAG bool, modelUsed string) {
	m.entries = append(m.entries, chatEntry{
		kind: entryMessage,
		message: models.Message{
			Content:   text,
			IsUser:    isUser,
			UsedRAG:   usedRAG,
			ModelUsed: modelUsed,
			Timestamp: models.Timestamp{Time: time.Now().UTC()},
		},
	})
}

// refreshViewport re-renders the history and scrolls to the newest entry
func (m *ChatModel) refreshViewport() {
	m.viewport.SetContent(m.renderEntries())
	m.scrollToBottom()
}

func (m *ChatModel) scrollToBottom() {
	m.viewport.GotoBottom()
}

func (m ChatModel) bubbleWidth() int {
	w := m.viewport.Width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m ChatModel) renderEntries() string {
	parts := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		parts = append(parts, m.renderEntry(e))
	}
	return strings.Join(parts, "\n\n")
}

// renderEntry renders one history row
func (m ChatModel) renderEntry(e chatEntry) string {
	width := m.bubbleWidth()

	switch e.kind {
	case entryIndicator:
		return indicatorStyle.Render(m.spinner.View() + " " + textProcessing)
	case entryError:
		return errorStyle.Render(e.text)
	}

	msg := e.message
	avatar := msg.Avatar()
	label := avatar.Glyph + " " + avatar.Label
	if !msg.Timestamp.IsZero() {
		label += " " + timestampStyle.Render(msg.Timestamp.Display())
	}

	if msg.IsUser {
		return userLabelStyle.Render(label) + "\n" +
			userBubbleStyle.Width(width).Render(render.Sanitize(msg.Content))
	}

	header := assistantLabelStyle.Render(label)
	if msg.UsedRAG {
		header += "  " + ragMarkerStyle.Render(ragMarker)
	}
	body := render.Reply(msg.Content, m.deps.renderOptions(width-4))
	return header + "\n" + assistantBubbleStyle.Width(width).Render(body)
}

// openSelector shows the model selector overlay
func (m ChatModel) openSelector() (tea.Model, tea.Cmd) {
	m.selecting = true
	m.selectorCursor = m.indexOfModel(m.activeModel)
	if m.selectorErr != nil || !m.selectorLoaded {
		m.selectorLoaded = false
		return m, m.loadModelsAndSetSelector()
	}
	return m, nil
}

func (m ChatModel) indexOfModel(name string) int {
	for i, lm := range m.models {
		if lm.Name == name {
			return i
		}
	}
	return 0
}

// updateSelector handles keys while the selector is open
func (m ChatModel) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "ctrl+o":
		m.selecting = false

	case "up", "k":
		if len(m.models) > 0 {
			m.selectorCursor--
			if m.selectorCursor < 0 {
				m.selectorCursor = len(m.models) - 1
			}
		}

	case "down", "j":
		if len(m.models) > 0 {
			m.selectorCursor++
			if m.selectorCursor >= len(m.models) {
				m.selectorCursor = 0
			}
		}

	case "enter":
		if m.switching || m.selectorCursor >= len(m.models) {
			return m, nil
		}
		choice := m.models[m.selectorCursor]
		if !choice.Available {
			return m, nil
		}
		m.selecting = false
		if choice.Name == m.activeModel {
			return m, nil
		}
		m.switching = true
		m.notice = infoNotice("Switching to " + choice.Label() + "…")
		return m, m.switchModel(choice.Name)
	}

	return m, nil
}

// View renders the chat page
func (m ChatModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	var sections []string
	sections = append(sections, m.renderHeader(contentWidth))

	if m.selecting {
		sections = append(sections, m.renderSelector(contentWidth))
	} else {
		var body string
		if len(m.entries) == 0 {
			body = m.renderWelcome()
		} else {
			body = m.viewport.View()
		}
		sections = append(sections, messagesAreaStyle.Width(contentWidth).Height(m.viewport.Height).Render(body))
	}

	input := lipgloss.JoinVertical(lipgloss.Left, inputLabelStyle.Render("You"), m.textarea.View())
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	if m.notice != nil {
		sections = append(sections, " "+m.notice.View())
	}

	sections = append(sections, renderShortcuts(contentWidth, [][2]string{
		{"Enter", "Send"},
		{"Ctrl+O", "Model"},
		{"PgUp/PgDn", "Scroll"},
		{"/help", "Commands"},
		{"Esc", "Quit"},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ChatModel) renderHeader(width int) string {
	sep := hintStyle.Render("  •  ")

	label := m.modelLabel
	switch {
	case !m.selectorLoaded && label == "":
		label = mutedStyle.Render("loading models…")
	case m.selectorErr != nil:
		label = errorStyle.Render("models: " + modelLabelMissing)
	default:
		label = subtitleStyle.Render(label)
	}

	parts := []string{
		titleStyle.Render("◆ RAG Chat"),
		sep,
		subtitleStyle.Render(fmt.Sprintf("Session #%d", m.sessionID)),
		sep,
		label,
		sep,
		renderRAGStatus(m.rag, m.ragLoaded),
	}
	return headerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center, parts...))
}

func (m ChatModel) renderWelcome() string {
	width := m.viewport.Width
	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeTitleStyle.Width(width).Render("No messages yet"),
		"",
		welcomeStyle.Width(width).Render("Type a question below. Answers use your uploaded documents when RAG is available."),
	)
	top := (m.viewport.Height - lipgloss.Height(content)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}

// renderSelector renders the model selector overlay. Unavailable models are
// listed but cannot be chosen.
func (m ChatModel) renderSelector(width int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Select a model"))
	b.WriteString("\n")

	switch {
	case !m.selectorLoaded:
		b.WriteString(loadingStyle.Render("  Loading models..."))
	case m.selectorErr != nil:
		b.WriteString(errorStyle.Render("  Failed to load models"))
	case len(m.models) == 0:
		b.WriteString(hintStyle.Render("  No models configured"))
	default:
		for i, lm := range m.models {
			cursor := "  "
			if i == m.selectorCursor {
				cursor = cursorStyle.Render("▸ ")
			}
			name := lm.Label()
			var line string
			switch {
			case !lm.Available:
				line = menuDisabledStyle.Render(name) + " " + warningStyle.Render("⚠ "+lm.UnavailableReason())
			case i == m.selectorCursor:
				line = menuSelectedStyle.Render(name)
			default:
				line = menuItemStyle.Render(name)
			}
			if lm.Name == m.activeModel {
				line += " " + successStyle.Render("(active)")
			}
			b.WriteString(cursor + line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate  ") +
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select  ") +
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"))

	return panelStyle.Width(width).Render(b.String())
}
