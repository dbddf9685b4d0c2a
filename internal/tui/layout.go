package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	inputWidth     int
	compactHero    bool
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 16,
		inputWidth:     60,
	}
}

// Update recomputes panel sizes for a terminal of width x height cells.
func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth

	// Field borders and the prompt take six columns.
	l.inputWidth = innerWidth - 6
	if l.inputWidth > 72 {
		l.inputWidth = 72
	}

	// Title, form, borders, notice, status bar and help use 24 rows; the logo
	// adds its art plus a shadow row.
	l.compactHero = height < 44 || width < 48
	chrome := 24
	if !l.compactHero {
		chrome += len(logoArtLines) + 1
	}
	contentHeight := height - chrome
	if contentHeight < 6 {
		contentHeight = 6
	}
	l.viewportHeight = contentHeight
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Lines() int {
	return cb.lines
}

// buildResultContent renders the success payload shown inside the viewport.
// Every line, including the last, ends with a newline.
func (m *model) buildResultContent() *contentBuilder {
	cb := &contentBuilder{}
	wrap := m.wrapWidth(4)
	result := m.status.content

	cb.WriteString(sectionHeaderStyle.Render("Learning Content"))
	cb.WriteRune('\n')
	cb.WriteString(helperStyle.Render(m.status.style.Label() + " · " + strings.TrimSpace(m.status.topic)))
	cb.WriteRune('\n')
	cb.WriteRune('\n')

	cb.WriteString(labelStyle.Render("Explanation:"))
	cb.WriteRune('\n')
	cb.WriteString(indentMultiline(wordwrap.String(result.Explanation, wrap), "  "))
	cb.WriteRune('\n')
	cb.WriteRune('\n')

	cb.WriteString(labelStyle.Render("Educational Image:"))
	cb.WriteRune('\n')
	switch {
	case m.image.url == "":
		cb.WriteString(helperStyle.Render("  No image was returned."))
	case m.image.loading:
		cb.WriteString(linkStyle.Render("  " + m.image.url))
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render("  " + m.spinner.View() + " Loading image…"))
	case m.image.err != "":
		cb.WriteString(linkStyle.Render("  " + m.image.url))
		cb.WriteRune('\n')
		cb.WriteString(errorStyle.Render("  " + m.image.err))
	case m.image.preview != "":
		cb.WriteString(linkStyle.Render("  " + m.image.url))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(m.image.preview, "  "))
	default:
		cb.WriteString(linkStyle.Render("  " + m.image.url))
	}
	cb.WriteRune('\n')
	return cb
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
