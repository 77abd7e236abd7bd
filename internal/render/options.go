// Package render turns MongoMentor answers, which arrive as markdown, into
// styled terminal output, and holds the colour themes of the chat view.
package render

// Options controls how an answer is rendered.
type Options struct {
	// Width is the wrap column; the chat view sets it to the bubble width.
	Width int

	// Style is a glamour style name, "auto", or a path to a JSON style file
	Style string

	// EnableEmoji turns :leaves: shortcodes into emoji
	EnableEmoji bool

	// PreserveNewLines keeps single line breaks from the answer
	PreserveNewLines bool

	// TableWrap wraps long cells, e.g. in replica set status tables
	TableWrap bool

	// InlineTableLinks prints link targets inside table cells
	InlineTableLinks bool
}

// DefaultOptions matches config.DefaultMarkdownConfig at 80 columns.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            ThemeAuto,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

func (o Options) WithTableWrap(enabled bool) Options {
	o.TableWrap = enabled
	return o
}

func (o Options) WithInlineTableLinks(enabled bool) Options {
	o.InlineTableLinks = enabled
	return o
}
