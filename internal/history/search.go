package history

import (
	"strings"

	"github.com/ragchat/ragchat/internal/models"
)

// SearchResult is one message matching a query
type SearchResult struct {
	Index   int
	Message models.Message
	Snippet string
}

// Search returns the messages whose content contains query, case-insensitively
func Search(messages []models.Message, query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var results []SearchResult
	for i, msg := range messages {
		if strings.Contains(strings.ToLower(msg.Content), strings.ToLower(query)) {
			results = append(results, SearchResult{
				Index:   i,
				Message: msg,
				Snippet: extractSnippet(msg.Content, query, 100),
			})
		}
	}
	return results
}

// extractSnippet returns up to maxLen runes around the first match of query
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	lower := []rune(strings.ToLower(content))
	q := []rune(strings.ToLower(query))

	idx := indexRunes(lower, q)
	if idx == -1 || len(lower) != len(runes) {
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
		return content
	}

	half := maxLen / 2
	start := idx - half
	end := idx + len(q) + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet += "..."
	}
	return snippet
}

func indexRunes(s, sub []rune) int {
	if len(sub) == 0 {
		return 0
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
