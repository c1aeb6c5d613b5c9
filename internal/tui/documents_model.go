package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ragchat/ragchat/internal/api"
	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
)

// Fixed user-facing texts of the documents page
const (
	textNoDocuments     = "No documents uploaded."
	textDocumentsFailed = "Failed to load document list."
	textUnknownError    = "Unknown error"
)

// uploadState is owned by one documents page instance
type uploadState int

const (
	uploadIdle uploadState = iota
	uploadUploading
)

// documentsMode represents the interaction mode of the documents page
type documentsMode int

const (
	documentsModeBrowse documentsMode = iota
	documentsModeConfirmDelete
)

// documentsFocus selects which part of the page receives keys
type documentsFocus int

const (
	focusPathInput documentsFocus = iota
	focusDocumentList
)

// Message types for the documents page
type (
	documentsLoadedMsg struct {
		documents []models.Document
		err       error
	}
	uploadDoneMsg struct {
		result *models.UploadResult
		err    error
	}
	documentDeletedMsg struct {
		id  int
		err error
	}
)

// DocumentsModel is the upload page: a file path form and the document list
type DocumentsModel struct {
	client api.ClientInterface
	logger *slog.Logger

	pathInput textinput.Model
	spinner   spinner.Model

	upload uploadState
	mode   documentsMode
	focus  documentsFocus

	documents []models.Document
	loaded    bool
	loadErr   error
	cursor    int

	deleteTarget models.Document

	notice *notice

	width  int
	height int
}

// NewDocumentsModel creates the documents page
func NewDocumentsModel(deps PageDeps) (DocumentsModel, error) {
	ti := textinput.New()
	ti.Placeholder = "path/to/file.pdf (txt, pdf, docx)"
	ti.Prompt = "› "
	ti.CharLimit = 1024
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	return DocumentsModel{
		client:    deps.Client,
		logger:    deps.logger(),
		pathInput: ti,
		spinner:   s,
	}, nil
}

// Init loads the document list once
func (m DocumentsModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadDocuments())
}

// loadDocuments fetches the document list
func (m DocumentsModel) loadDocuments() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		docs, err := client.ListDocuments(context.Background())
		return documentsLoadedMsg{documents: docs, err: err}
	}
}

func (m DocumentsModel) uploadFile(path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		result, err := client.UploadDocument(context.Background(), path)
		return uploadDoneMsg{result: result, err: err}
	}
}

func (m DocumentsModel) deleteDocument(id int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return documentDeletedMsg{id: id, err: client.DeleteDocument(context.Background(), id)}
	}
}

// Update handles messages and updates the model
func (m DocumentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 12
		if w < 20 {
			w = 20
		}
		m.pathInput.Width = w
		return m, nil

	case tea.KeyMsg:
		if m.mode == documentsModeConfirmDelete {
			return m.handleConfirmDelete(msg)
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			m.toggleFocus()
			return m, nil
		case "ctrl+r":
			return m.refresh()
		}
		if m.focus == focusDocumentList {
			return m.handleListKeys(msg)
		}
		if msg.String() == "enter" {
			return m.submit()
		}
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd

	case documentsLoadedMsg:
		m.loaded = true
		m.loadErr = msg.err
		if msg.err != nil {
			m.logger.Debug("document list failed", "error", msg.err)
			m.documents = nil
		} else {
			m.documents = msg.documents
		}
		if m.cursor >= len(m.documents) {
			m.cursor = max(len(m.documents)-1, 0)
		}

	case uploadDoneMsg:
		m.upload = uploadIdle
		if msg.err != nil {
			m.logger.Debug("upload failed", "error", msg.err)
			m.notice = errorNotice("Upload failed: " + uploadFailureText(msg.err))
			break
		}
		m.notice = successNotice(fmt.Sprintf("Document \"%s\" uploaded. Processing started.", msg.result.Filename))
		m.pathInput.Reset()
		cmds = append(cmds, m.loadDocuments())

	case documentDeletedMsg:
		if msg.err != nil {
			m.logger.Debug("delete failed", "doc_id", msg.id, "error", msg.err)
			m.notice = errorNotice(fmt.Sprintf("Failed to delete document: %v", msg.err))
		} else {
			m.notice = successNotice("Document deleted")
		}
		cmds = append(cmds, m.loadDocuments())

	case spinner.TickMsg:
		if m.upload == uploadUploading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// uploadFailureText extracts the message shown after "Upload failed: "
func uploadFailureText(err error) string {
	var upErr *apierrors.UploadError
	if errors.As(err, &upErr) {
		if upErr.Message == "" {
			return textUnknownError
		}
		return upErr.Message
	}
	if err == nil || err.Error() == "" {
		return textUnknownError
	}
	return err.Error()
}

func (m *DocumentsModel) toggleFocus() {
	if m.focus == focusPathInput {
		m.focus = focusDocumentList
		m.pathInput.Blur()
		return
	}
	m.focus = focusPathInput
	m.pathInput.Focus()
}

func (m DocumentsModel) refresh() (tea.Model, tea.Cmd) {
	m.notice = infoNotice("Refreshing…")
	return m, m.loadDocuments()
}

// submit starts an upload. A submit while uploading is ignored.
func (m DocumentsModel) submit() (tea.Model, tea.Cmd) {
	if m.upload == uploadUploading {
		return m, nil
	}
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		m.notice = errorNotice("Upload failed: " + apierrors.ErrNoFile.Error())
		return m, nil
	}

	m.upload = uploadUploading
	m.notice = nil
	return m, tea.Batch(m.uploadFile(path), m.spinner.Tick)
}

// handleListKeys handles keys while the document list has focus
func (m DocumentsModel) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.documents)-1 {
			m.cursor++
		}
	case "r":
		return m.refresh()
	case "d", "delete":
		if m.cursor < len(m.documents) {
			m.deleteTarget = m.documents[m.cursor]
			m.mode = documentsModeConfirmDelete
		}
	}
	return m, nil
}

// handleConfirmDelete handles the y/n confirmation
func (m DocumentsModel) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = documentsModeBrowse
		return m, m.deleteDocument(m.deleteTarget.ID)
	case "n", "N", "esc":
		m.mode = documentsModeBrowse
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// View renders the documents page
func (m DocumentsModel) View() string {
	width := m.width - 4
	if width < 40 {
		width = 40
	}

	var sections []string
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("◆ Documents"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("sources used for retrieval"),
	)
	sections = append(sections, headerStyle.Width(width).Render(header))

	sections = append(sections, m.renderUploadForm(width))

	if m.mode == documentsModeConfirmDelete {
		sections = append(sections, m.renderConfirmDelete(width))
	} else {
		sections = append(sections, m.renderDocumentList(width))
	}

	if m.notice != nil {
		sections = append(sections, " "+m.notice.View())
	}

	sections = append(sections, renderShortcuts(width, [][2]string{
		{"Enter", "Upload"},
		{"Tab", "Focus"},
		{"d", "Delete"},
		{"r", "Refresh"},
		{"Esc", "Quit"},
	}))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DocumentsModel) renderUploadForm(width int) string {
	label := inputLabelStyle.Render("Upload a document")
	if m.focus != focusPathInput {
		label = labelStyle.Render("Upload a document")
	}

	status := hintStyle.Render("Supported: " + strings.Join(api.SupportedExtensions(), ", ") + ", up to 16 MB")
	if m.upload == uploadUploading {
		status = loadingStyle.Render(m.spinner.View() + " Uploading...")
	}

	return inputPanelStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, label, m.pathInput.View(), status),
	)
}

// renderDocumentList renders one row per document or a placeholder
func (m DocumentsModel) renderDocumentList(width int) string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf("Uploaded documents (%d)", len(m.documents))))
	b.WriteString("\n")

	switch {
	case !m.loaded:
		b.WriteString(loadingStyle.Render("Loading documents..."))
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render(textDocumentsFailed))
	case len(m.documents) == 0:
		b.WriteString(hintStyle.Render(textNoDocuments))
	default:
		for i, doc := range m.documents {
			b.WriteString(m.renderDocumentRow(i, doc))
			b.WriteString("\n")
		}
	}

	return panelStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

func (m DocumentsModel) renderDocumentRow(i int, doc models.Document) string {
	selected := m.focus == focusDocumentList && i == m.cursor

	cursor := "  "
	name := menuItemStyle.Render(doc.Filename)
	if selected {
		cursor = cursorStyle.Render("▸ ")
		name = menuSelectedStyle.Render(doc.Filename)
	}

	badge := warningStyle.Render("◌ " + doc.StatusLabel())
	if doc.Processed {
		badge = successStyle.Render("✓ " + doc.StatusLabel())
	}

	meta := mutedStyle.Render(fmt.Sprintf("%s  •  %s", doc.SizeLabel(), doc.UploadedAt.Display()))
	return cursor + name + "  " + meta + "  " + badge
}

func (m DocumentsModel) renderConfirmDelete(width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("Delete document?"),
		"",
		valueStyle.Render(m.deleteTarget.Filename),
		mutedStyle.Render(fmt.Sprintf("%s  •  %s", m.deleteTarget.SizeLabel(), m.deleteTarget.UploadedAt.Display())),
		"",
		statusKeyStyle.Render("y")+statusDescStyle.Render(" Confirm  ")+
			statusKeyStyle.Render("n")+statusDescStyle.Render(" Cancel"),
	)
	return panelStyle.Width(width).Render(content)
}
