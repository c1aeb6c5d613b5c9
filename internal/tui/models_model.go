package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ragchat/ragchat/internal/api"
	"github.com/ragchat/ragchat/internal/models"
)

// Fixed user-facing texts of the models page
const (
	textSessionFailed = "Failed to load session."
	textPlaceholder   = "—"
)

// Message types for the models page
type (
	sessionLoadedMsg struct {
		session *models.Session
		err     error
	}
	modelListMsg struct {
		models []models.LLMModel
		err    error
	}
	activationMsg struct {
		name      string
		sessionID int
		err       error
	}
)

// modelRow is one rendered model with its activation bound to the
// session it was rendered for.
type modelRow struct {
	model    models.LLMModel
	activate func() tea.Cmd
}

// ModelsModel is the models page: the current session and every model
// the backend hosts.
type ModelsModel struct {
	client    api.ClientInterface
	sessionID int
	logger    *slog.Logger

	spinner spinner.Model

	session    *models.Session
	sessionErr error
	list       []models.LLMModel
	listErr    error
	listLoaded bool
	rows       []modelRow
	cursor     int

	activeLabel  string
	switching    bool
	bannerHidden bool

	notice *notice

	width  int
	height int
}

// NewModelsModel creates the models page. A zero deps.SessionID means the
// backend's current session.
func NewModelsModel(deps PageDeps) (ModelsModel, error) {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	return ModelsModel{
		client:    deps.Client,
		sessionID: deps.SessionID,
		logger:    deps.logger(),
		spinner:   s,
	}, nil
}

// Init loads the session, then the model list
func (m ModelsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSession())
}

func (m ModelsModel) loadSession() tea.Cmd {
	client, id := m.client, m.sessionID
	return func() tea.Msg {
		var (
			s   *models.Session
			err error
		)
		if id > 0 {
			s, err = client.GetSessionInfo(context.Background(), id)
		} else {
			s, err = client.CurrentSession(context.Background())
		}
		if err == nil && s == nil {
			err = fmt.Errorf("empty session response")
		}
		return sessionLoadedMsg{session: s, err: err}
	}
}

func (m ModelsModel) loadModels() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		list, err := client.ListModels(context.Background())
		return modelListMsg{models: list, err: err}
	}
}

// activation returns the switch command for name on sessionID
func (m ModelsModel) activation(name string, sessionID int) func() tea.Cmd {
	client := m.client
	return func() tea.Cmd {
		return func() tea.Msg {
			_, err := client.SwitchModel(context.Background(), name, sessionID)
			return activationMsg{name: name, sessionID: sessionID, err: err}
		}
	}
}

// buildRows binds each available model's activation to the loaded session
func (m *ModelsModel) buildRows() {
	m.rows = make([]modelRow, 0, len(m.list))
	for _, lm := range m.list {
		row := modelRow{model: lm}
		if lm.Available && m.session != nil {
			row.activate = m.activation(lm.Name, m.session.ID)
		}
		m.rows = append(m.rows, row)
	}
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

// showBanner reports whether the session's bound model is listed as unavailable
func (m ModelsModel) showBanner() bool {
	if m.bannerHidden || m.session == nil {
		return false
	}
	lm, ok := models.FindModel(m.list, m.session.ModelUsed)
	return ok && !lm.Available
}

// Update handles messages and updates the model
func (m ModelsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case sessionLoadedMsg:
		if msg.err != nil {
			m.logger.Debug("session load failed", "error", msg.err)
			m.sessionErr = msg.err
			return m, nil
		}
		session := *msg.session
		m.session = &session
		m.activeLabel = session.ModelUsed
		return m, m.loadModels()

	case modelListMsg:
		m.listLoaded = true
		m.listErr = msg.err
		if msg.err != nil {
			m.logger.Debug("model list failed", "error", msg.err)
			m.list = nil
		} else {
			m.list = msg.models
		}
		if m.session != nil {
			m.activeLabel = models.ModelLabel(m.list, m.session.ModelUsed)
		}
		m.buildRows()
		return m, nil

	case activationMsg:
		m.switching = false
		if msg.err != nil {
			m.logger.Debug("switch model failed", "model", msg.name, "error", msg.err)
			m.notice = errorNotice(textSwitchFailed)
			return m, nil
		}
		if m.session != nil {
			m.session.ModelUsed = msg.name
		}
		m.activeLabel = models.ModelLabel(m.list, msg.name)
		m.bannerHidden = true
		m.notice = successNotice(textSwitchOK)
		return m, m.loadModels()

	case spinner.TickMsg:
		if (!m.listLoaded && m.sessionErr == nil) || m.switching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m ModelsModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "r":
		m.notice = nil
		if m.session == nil {
			m.sessionErr = nil
			return m, m.loadSession()
		}
		return m, m.loadModels()

	case "enter":
		if m.switching || m.cursor >= len(m.rows) {
			return m, nil
		}
		row := m.rows[m.cursor]
		if row.activate == nil {
			return m, nil
		}
		m.switching = true
		m.notice = infoNotice("Switching to " + row.model.Label() + "…")
		return m, tea.Batch(row.activate(), m.spinner.Tick)
	}

	return m, nil
}

// View renders the models page
func (m ModelsModel) View() string {
	width := m.width - 4
	if width < 40 {
		width = 40
	}

	sections := []string{m.renderSessionHeader(width)}

	if m.showBanner() {
		sections = append(sections, bannerStyle.Width(width).Render(
			fmt.Sprintf("⚠ The model bound to this session (%s) is unavailable. Pick another one below.", m.activeLabel)))
	}

	sections = append(sections, m.renderModelList(width))

	if m.notice != nil {
		sections = append(sections, " "+m.notice.View())
	}

	sections = append(sections, renderShortcuts(width, [][2]string{
		{"↑↓", "Navigate"},
		{"Enter", "Activate"},
		{"r", "Refresh"},
		{"Esc", "Quit"},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ModelsModel) renderSessionHeader(width int) string {
	id, model := textPlaceholder, textPlaceholder
	if m.session != nil {
		id = fmt.Sprintf("#%d", m.session.ID)
		model = m.activeLabel
		if model == "" {
			model = textPlaceholder
		}
	}

	content := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("◆ Models"),
		hintStyle.Render("  •  "),
		labelStyle.Render("Session "),
		valueStyle.Render(id),
		hintStyle.Render("  •  "),
		labelStyle.Render("Active "),
		valueStyle.Render(model),
	)
	return headerStyle.Width(width).Render(content)
}

func (m ModelsModel) renderModelList(width int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Available models"))
	b.WriteString("\n")

	switch {
	case m.sessionErr != nil:
		b.WriteString(errorStyle.Render(textSessionFailed))
	case !m.listLoaded:
		b.WriteString(loadingStyle.Render(m.spinner.View() + " Loading models..."))
	case m.listErr != nil:
		b.WriteString(errorStyle.Render("Failed to load models."))
	case len(m.rows) == 0:
		b.WriteString(hintStyle.Render("No models configured."))
	default:
		for i, row := range m.rows {
			b.WriteString(m.renderRow(i, row))
			b.WriteString("\n")
		}
	}

	return panelStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// renderRow renders a model with its availability badge
func (m ModelsModel) renderRow(i int, row modelRow) string {
	cursor := "  "
	if i == m.cursor {
		cursor = cursorStyle.Render("▸ ")
	}

	var name string
	switch {
	case row.activate == nil:
		name = menuDisabledStyle.Render(row.model.Label())
	case i == m.cursor:
		name = menuSelectedStyle.Render(row.model.Label())
	default:
		name = menuItemStyle.Render(row.model.Label())
	}

	line := cursor + name + "  " + availabilityBadge(row.model)
	if m.session != nil && row.model.Name == m.session.ModelUsed {
		line += "  " + successStyle.Render("(active)")
	}
	return line
}

// availabilityBadge renders "✓ Available" or "⚠ Unavailable: <reason>"
func availabilityBadge(lm models.LLMModel) string {
	if lm.Available {
		return successStyle.Render("✓ Available")
	}
	return warningStyle.Render("⚠ Unavailable: " + lm.UnavailableReason())
}
