package render

import (
	"os"

	"github.com/ragchat/ragchat/internal/config"
)

// OptionsFromConfig builds render options from the markdown settings.
// GLAMOUR_STYLE takes precedence over the configured style.
func OptionsFromConfig(cfg config.Config) Options {
	md := cfg.Markdown
	opts := Options{
		Width:            DefaultOptions().Width,
		Style:            StyleDark,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if md.Style != "" {
		opts = opts.WithStyle(md.Style)
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts = opts.WithStyle(style)
	}
	return opts
}

// OptionsFromConfigWithWidth is OptionsFromConfig wrapped at width columns
func OptionsFromConfigWithWidth(cfg config.Config, width int) Options {
	return OptionsFromConfig(cfg).WithWidth(width)
}
