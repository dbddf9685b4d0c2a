package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/eduassist/internal/guide"
)

func (m *model) View() string {
	if m.unmounted {
		return ""
	}
	m.refreshViewportIfDirty()
	return joinNonEmpty([]string{
		m.heroView(),
		m.formView(),
		m.resultView(),
		m.noticeView(),
		m.statusBarView(),
		m.help.View(m.keys),
	})
}

func (m *model) heroView() string {
	title := heroTitleStyle.Render(heroTitle)
	tagline := taglineStyle.Render(heroTagline)
	if m.layout.compactHero {
		return lipgloss.JoinVertical(lipgloss.Left, title, tagline)
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), title, tagline)
}

func (m *model) formView() string {
	topicBox := fieldStyle
	if m.focus == focusTopic {
		topicBox = fieldFocusedStyle
	}
	topic := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Topic"),
		topicBox.Render(m.topicInput.View()),
	)

	styleBox := fieldStyle
	if m.focus == focusStyle {
		styleBox = fieldFocusedStyle
	}
	hint := guide.For(m.style, m.topicInput.Value())
	selector := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Learning Style"),
		styleBox.Render(fmt.Sprintf("‹ %s ›", hint.Title)),
		helperStyle.Render(wordwrap.String(hint.Description, m.wrapWidth(2))),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topic, selector, "", m.buttonView())
}

func (m *model) buttonView() string {
	if m.status.stage == stageLoading {
		return buttonBusyStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), labelSubmitBusy))
	}
	if m.focus == focusSubmit {
		return buttonFocusedStyle.Render(labelSubmitIdle)
	}
	return buttonStyle.Render(labelSubmitIdle)
}

// resultView shows at most one of the error or success areas.
func (m *model) resultView() string {
	switch m.status.stage {
	case stageError:
		return errorBoxStyle.Render(errorStyle.Render(m.status.message))
	case stageSuccess:
		return resultBoxStyle.Render(m.viewport.View())
	default:
		return ""
	}
}

func (m *model) noticeView() string {
	if m.infoMessage == "" {
		return ""
	}
	return helperStyle.Render(m.infoMessage)
}

func (m *model) statusBarView() string {
	stats := []string{
		fmt.Sprintf("Style %s", m.style.Label()),
		fmt.Sprintf("Status %s", m.status.stage),
	}
	if topic := previewText(m.status.topic, 24); topic != "" && m.status.stage != stageError {
		stats = append(stats, fmt.Sprintf("Topic %q", topic))
	}
	if m.config.Client != nil {
		stats = append(stats, "API "+m.config.Client.BaseURL())
	}
	if n := len(m.activeJobs); n > 0 {
		stats = append(stats, fmt.Sprintf("Jobs %d", n))
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	// Shadow first, offset one cell down and right, then the face on top.
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' && y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
