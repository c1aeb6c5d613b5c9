package render

import "strings"

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Reply prepares backend-authored text for the terminal: markup and
// control sequences are stripped, then the result is rendered as markdown.
// If rendering fails the sanitized text is returned as-is.
func Reply(content string, opts Options) string {
	clean := Sanitize(content)
	out, err := Markdown(clean, opts)
	if err != nil {
		return clean
	}
	return strings.Trim(out, "\n")
}
