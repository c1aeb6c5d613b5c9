package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce   sync.Once
	strictPolicy *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Sanitize removes HTML markup and terminal control characters from text
// received from the backend. Fenced code blocks keep their markup so code
// samples survive intact; control characters are removed everywhere.
func Sanitize(content string) string {
	if content == "" {
		return ""
	}

	var out strings.Builder
	var prose strings.Builder
	inFence := false

	flush := func() {
		if prose.Len() == 0 {
			return
		}
		out.WriteString(html.UnescapeString(policy().Sanitize(prose.String())))
		prose.Reset()
	}

	lines := strings.SplitAfter(content, "\n")
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			flush()
			inFence = !inFence
			out.WriteString(line)
			continue
		}
		if inFence {
			out.WriteString(line)
		} else {
			prose.WriteString(line)
		}
	}
	flush()

	return stripControl(out.String())
}

// stripControl drops C0/C1 control characters other than newline and tab,
// which removes ANSI escape introducers.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20, r == 0x7f, r >= 0x80 && r < 0xa0:
			return -1
		}
		return r
	}, s)
}
