package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders prose paragraphs with glamour, rebuilding the
// underlying renderer only when the wrap width or style changes.
type MarkdownRenderer struct {
	tr    *glamour.TermRenderer
	width int
	style string
}

// NewMarkdownRenderer creates a renderer wrapping at width.
func NewMarkdownRenderer(width int, theme Theme) *MarkdownRenderer {
	m := &MarkdownRenderer{}
	m.SetWidthWithTheme(width, theme)
	return m
}

// SetWidthWithTheme adjusts wrap width and the light/dark style.
func (m *MarkdownRenderer) SetWidthWithTheme(width int, theme Theme) {
	if width < 20 {
		width = 20
	}
	style := "light"
	if theme.Dark {
		style = "dark"
	}
	if theme.Renderer != nil && theme.Renderer.ColorProfile() == asciiProfile {
		style = "notty"
	}
	if m.tr != nil && width == m.width && style == m.style {
		return
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.tr = nil
		return
	}
	m.tr, m.width, m.style = tr, width, style
}

// Render renders paragraphs as markdown. On any failure the paragraphs are
// returned as plain text.
func (m *MarkdownRenderer) Render(paragraphs []string) string {
	plain := strings.Join(paragraphs, "\n\n")
	if m == nil || m.tr == nil {
		return plain
	}
	out, err := m.tr.Render(plain)
	if err != nil {
		return plain
	}
	// Strip the blank lines glamour adds around the document
	return strings.TrimLeft(strings.TrimRight(out, " \n\r\t"), "\n")
}
