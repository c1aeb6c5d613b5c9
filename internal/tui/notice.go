package tui

// noticeKind selects how a notice is styled
type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// notice is a one-line message shown under a page until the next action
type notice struct {
	text string
	kind noticeKind
}

func infoNotice(text string) *notice    { return &notice{text: text, kind: noticeInfo} }
func successNotice(text string) *notice { return &notice{text: text, kind: noticeSuccess} }
func errorNotice(text string) *notice   { return &notice{text: text, kind: noticeError} }

func (n *notice) View() string {
	if n == nil {
		return ""
	}
	switch n.kind {
	case noticeSuccess:
		return successStyle.Render("✓ " + n.text)
	case noticeError:
		return errorStyle.Render("✗ " + n.text)
	default:
		return valueStyle.Render("• " + n.text)
	}
}

// Text returns the notice text without styling, or ""
func (n *notice) Text() string {
	if n == nil {
		return ""
	}
	return n.text
}
