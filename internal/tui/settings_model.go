package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ragchat/ragchat/internal/config"
	"github.com/ragchat/ragchat/internal/render"
)

// settingsView is the current view of the settings page
type settingsView int

const (
	viewMain settingsView = iota
	viewMarkdownSelect
	viewTUIThemeSelect
)

// Menu item indices for the main view
const (
	menuVerbose = iota
	menuCopyToClipboard
	menuTimeout
	menuMarkdownStyle
	menuTUITheme
	menuExit
	menuItemCount
)

// timeoutChoices are the request timeouts the menu cycles through, in seconds
var timeoutChoices = []int{30, 60, 120, 300}

// feedbackClearMsg clears the feedback line
type feedbackClearMsg struct{}

// SettingsModel edits the settings stored in the config file. Values
// coming from flags or the environment are not written back.
type SettingsModel struct {
	cfg        config.Config
	configPath string
	serverURL  string
	save       func(config.Config) error

	view        settingsView
	cursor      int
	styleCursor int
	themeCursor int

	feedback        *notice
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewSettingsModel loads the config file for editing
func NewSettingsModel(deps PageDeps) (SettingsModel, error) {
	cfg, err := config.LoadFile()
	if err != nil {
		return SettingsModel{}, fmt.Errorf("failed to load settings: %w", err)
	}
	configPath, _ := config.GetConfigPath()

	m := SettingsModel{
		cfg:             cfg,
		configPath:      configPath,
		serverURL:       deps.Client.BaseURL(),
		save:            config.SaveConfig,
		feedbackTimeout: 2 * time.Second,
	}
	m.styleCursor = indexOf(markdownStyleNames(), m.markdownStyle())
	m.themeCursor = indexOf(render.TUIThemeNames(), m.tuiTheme())
	return m, nil
}

func markdownStyleNames() []string {
	styles := render.AvailableStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return 0
}

func (m SettingsModel) markdownStyle() string {
	if m.cfg.Markdown.Style == "" {
		return render.StyleDark
	}
	return m.cfg.Markdown.Style
}

func (m SettingsModel) tuiTheme() string {
	if m.cfg.TUITheme == "" {
		return "tokyonight"
	}
	return m.cfg.TUITheme
}

func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback line after d
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// wrap moves i by delta inside [0, n)
func wrap(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}

func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *SettingsModel) move(delta int) {
	switch m.view {
	case viewMain:
		m.cursor = wrap(m.cursor, delta, menuItemCount)
	case viewMarkdownSelect:
		m.styleCursor = wrap(m.styleCursor, delta, len(markdownStyleNames()))
	case viewTUIThemeSelect:
		m.themeCursor = wrap(m.themeCursor, delta, len(render.TUIThemeNames()))
	}
}

// persist saves the config and reports the result
func (m SettingsModel) persist(success string) (tea.Model, tea.Cmd) {
	if err := m.save(m.cfg); err != nil {
		m.feedback = errorNotice(fmt.Sprintf("Error: %v", err))
	} else {
		m.feedback = successNotice(success)
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func enabledText(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// nextTimeout returns the timeout after current in timeoutChoices
func nextTimeout(current int) int {
	for i, t := range timeoutChoices {
		if t > current {
			return timeoutChoices[i]
		}
	}
	return timeoutChoices[0]
}

func (m SettingsModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMarkdownSelect:
		m.cfg.Markdown.Style = markdownStyleNames()[m.styleCursor]
		m.view = viewMain
		return m.persist("Markdown style set to " + m.cfg.Markdown.Style)

	case viewTUIThemeSelect:
		theme := render.TUIThemeNames()[m.themeCursor]
		m.cfg.TUITheme = theme
		if render.SetTUITheme(theme) {
			UpdateTheme()
		}
		m.view = viewMain
		return m.persist("TUI theme set to " + theme)
	}

	switch m.cursor {
	case menuVerbose:
		m.cfg.Verbose = !m.cfg.Verbose
		return m.persist("Verbose logging " + enabledText(m.cfg.Verbose))

	case menuCopyToClipboard:
		m.cfg.CopyToClipboard = !m.cfg.CopyToClipboard
		return m.persist("Copy to clipboard " + enabledText(m.cfg.CopyToClipboard))

	case menuTimeout:
		m.cfg.RequestTimeout = nextTimeout(m.cfg.RequestTimeout)
		return m.persist(fmt.Sprintf("Request timeout set to %ds", m.cfg.RequestTimeout))

	case menuMarkdownStyle:
		m.view = viewMarkdownSelect

	case menuTUITheme:
		m.view = viewTUIThemeSelect

	case menuExit:
		return m, tea.Quit
	}
	return m, nil
}

func (m SettingsModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	width := m.width - 4
	if width < 40 {
		width = 40
	}

	header := headerStyle.Width(width).Render(titleStyle.Render("⚙ Settings"))

	paths := lipgloss.JoinVertical(lipgloss.Left,
		panelTitleStyle.Render("Paths"),
		"   "+labelStyle.Render("Config:  ")+valueStyle.Render(m.configPath),
		"   "+labelStyle.Render("Server:  ")+valueStyle.Render(m.serverURL),
	)

	var body string
	switch m.view {
	case viewMarkdownSelect:
		body = m.renderChoices("Markdown style", markdownStyleNames(), m.styleCursor, m.markdownStyle(), func(name string) string {
			for _, s := range render.AvailableStyles() {
				if s.Name == name {
					return s.Description
				}
			}
			return ""
		})
	case viewTUIThemeSelect:
		body = m.renderChoices("TUI theme", render.TUIThemeNames(), m.themeCursor, m.tuiTheme(), func(name string) string {
			t, _ := render.GetTUIThemeByName(name)
			return t.Description
		})
	default:
		body = m.renderMainMenu()
	}

	sections := []string{
		header,
		panelStyle.Width(width).Render(paths),
		panelStyle.Width(width).Render(body),
	}
	if m.feedback != nil {
		sections = append(sections, " "+m.feedback.View())
	}

	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}
	sections = append(sections, renderShortcuts(width, [][2]string{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SettingsModel) renderMainMenu() string {
	items := []struct {
		label string
		value string
	}{
		{"Verbose Logging", boolValue(m.cfg.Verbose)},
		{"Copy to Clipboard", boolValue(m.cfg.CopyToClipboard)},
		{"Request Timeout", valueStyle.Render(strconv.Itoa(m.cfg.RequestTimeout) + "s")},
		{"Markdown Style", valueStyle.Render(m.markdownStyle())},
		{"TUI Theme", valueStyle.Render(m.tuiTheme())},
		{"Exit", ""},
	}

	lines := []string{panelTitleStyle.Render("Settings"), ""}
	for i, item := range items {
		cursor, style := "  ", menuItemStyle
		if i == m.cursor {
			cursor, style = cursorStyle.Render("▸ "), menuSelectedStyle
		}
		if i == menuExit {
			lines = append(lines, "")
		}
		line := cursor + style.Render(fmt.Sprintf("%-20s", item.label))
		if item.value != "" {
			line += item.value
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderChoices renders a selection sub-menu
func (m SettingsModel) renderChoices(title string, names []string, cursor int, current string, describe func(string) string) string {
	lines := []string{panelTitleStyle.Render(title), ""}
	for i, name := range names {
		prefix, style := "  ", menuItemStyle
		if i == cursor {
			prefix, style = cursorStyle.Render("▸ "), menuSelectedStyle
		}
		text := name
		if d := describe(name); d != "" {
			text += " - " + d
		}
		line := prefix + style.Render(text)
		if name == current {
			line += successStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func boolValue(v bool) string {
	if v {
		return successStyle.Render("enabled")
	}
	return mutedStyle.Render("disabled")
}
