package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ragchat/ragchat/internal/config"
	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
	"github.com/ragchat/ragchat/internal/render"
)

func themeStyle(pick func(render.TUITheme) lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(pick(render.GetTUITheme()))
}

func successText(s string) string {
	return themeStyle(func(t render.TUITheme) lipgloss.Color { return t.Success }).Render(s)
}

func warningText(s string) string {
	return themeStyle(func(t render.TUITheme) lipgloss.Color { return t.Warning }).Render(s)
}

func dangerText(s string) string {
	return themeStyle(func(t render.TUITheme) lipgloss.Color { return t.Danger }).Render(s)
}

func dimText(s string) string {
	return themeStyle(func(t render.TUITheme) lipgloss.Color { return t.TextDim }).Render(s)
}

// assistantLabel renders the avatar line above a reply
func assistantLabel(modelUsed string, usedRAG bool) string {
	avatar := models.AvatarFor(false, modelUsed)
	label := themeStyle(func(t render.TUITheme) lipgloss.Color { return t.Primary }).
		Bold(true).
		Render(avatar.Glyph + " " + avatar.Label)
	if usedRAG {
		label += "  " + themeStyle(func(t render.TUITheme) lipgloss.Color { return t.Accent }).Bold(true).Render("📚 RAG")
	}
	return label
}

// assistantBubble wraps rendered content like the chat page does
func assistantBubble(content string, width int) string {
	theme := render.GetTUITheme()
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginBottom(1).
		Width(width).
		Render(content)
}

// verbosef writes a "[verbose]" diagnostic line to stderr when enabled
func verbosef(cmd *cobra.Command, cfg config.Config, format string, args ...any) {
	if !cfg.Verbose {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "[verbose] "+format+"\n", args...)
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// bubbleWidths returns the bubble and content width for the terminal
func bubbleWidths() (int, int) {
	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	return bubbleWidth, bubbleWidth - 4
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(dangerText(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimText(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimText(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimText(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case apierrors.IsTimeoutError(err):
			sb.WriteString(dimText("\n  Hint: Request timed out. Raise request_timeout or try again"))
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimText("\n  Hint: Is the backend running? Check server_url with 'ragchat config show'"))
		case apierrors.IsNotFound(err):
			sb.WriteString(dimText("\n  Hint: The session or document no longer exists"))
		case apierrors.IsUploadError(err):
			sb.WriteString(dimText("\n  Hint: Only .txt, .pdf and .docx files up to 16MB are accepted"))
		}
	}

	return sb.String()
}
