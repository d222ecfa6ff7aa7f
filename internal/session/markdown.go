package session

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultStyle is the glamour style used when none is configured.
const DefaultStyle = "tokyo-night"

// MarkdownRenderer wraps glamour.TermRenderer for a fixed style, recreating it
// when the width changes.
type MarkdownRenderer struct {
	renderer     *glamour.TermRenderer
	CurrentWidth int

	style string
}

// NewMarkdownRenderer creates a renderer wrapping at width cells. style is a
// glamour style name or a path to a JSON style file.
func NewMarkdownRenderer(style string, width int) (*MarkdownRenderer, error) {
	if style == "" {
		style = DefaultStyle
	}
	md := &MarkdownRenderer{style: style, CurrentWidth: width}
	if err := md.createNewRenderer(); err != nil {
		return nil, err
	}
	return md, nil
}

// createNewRenderer creates or re-creates the glamour.TermRenderer, using the CurrentWidth and style fields.
func (md *MarkdownRenderer) createNewRenderer() error {
	renderer, err := glamour.NewTermRenderer(
		// glamour.WithAutoStyle() queries the terminal, which hangs when stdout is not one
		glamour.WithStylePath(md.style),
		glamour.WithEmoji(),
		glamour.WithWordWrap(md.CurrentWidth),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer with style %q: %w", md.style, err)
	}
	md.renderer = renderer
	return nil
}

// Render renders markdown for a given width. The input is returned unchanged
// when rendering fails.
func (md *MarkdownRenderer) Render(markdown string, width int) string {
	if width != md.CurrentWidth {
		md.CurrentWidth = width
		if err := md.createNewRenderer(); err != nil {
			return markdown
		}
	}

	rendered, err := md.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
