package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Glamour's built-in style names
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleASCII      = "ascii"
	StyleNoTTY      = "notty"
)

var builtinStyles = map[string]string{
	StyleDark:       "Dark theme (default)",
	StyleLight:      "Light theme for bright terminals",
	StyleDracula:    "Dracula color scheme",
	StyleTokyoNight: "Tokyo Night color scheme",
	StylePink:       "Pink accents",
	StyleASCII:      "ASCII-only output",
	StyleNoTTY:      "Plain text (no styling)",
}

// IsBuiltinStyle reports whether style names one of glamour's styles
func IsBuiltinStyle(style string) bool {
	_, ok := builtinStyles[normalizeStyle(style)]
	return ok
}

// normalizeStyle folds palette names onto glamour style names so that
// markdown.style may be set to the same value as tui_theme.
func normalizeStyle(style string) string {
	s := strings.ToLower(strings.TrimSpace(style))
	switch s {
	case "", "auto":
		return StyleDark
	case "tokyonight":
		return StyleTokyoNight
	}
	if theme, ok := tuiThemes[s]; ok {
		return theme.Markdown
	}
	return s
}

// styleOption chooses between a built-in glamour style and a JSON style file
func styleOption(style string) glamour.TermRendererOption {
	if IsBuiltinStyle(style) {
		return glamour.WithStandardStyle(normalizeStyle(style))
	}
	path := style
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return glamour.WithStylePath(path)
}

// StyleInfo describes a markdown style for display
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists glamour's built-in markdown styles
func AvailableStyles() []StyleInfo {
	order := []string{StyleDark, StyleLight, StyleTokyoNight, StyleDracula, StylePink, StyleASCII, StyleNoTTY}
	out := make([]StyleInfo, 0, len(order))
	for _, name := range order {
		out = append(out, StyleInfo{Name: name, Description: builtinStyles[name]})
	}
	return out
}
