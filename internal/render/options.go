// Package render turns backend replies into styled terminal output.
package render

// Options selects how replies are rendered. Options is a cache key for
// the renderer pool, so it must stay comparable.
type Options struct {
	Width int
	// Style is a glamour style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions renders at 80 columns in the dark style
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy of o wrapped at width columns
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy of o using style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
