package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/manyways/pkg/flow"
	"github.com/vanderheijden86/manyways/pkg/session"
)

const progressWidth = 12

// renderHeader draws the caption with a progress bar, then title and subtitle.
func (m Model) renderHeader() string {
	v := m.view
	t := m.theme

	// Step 2 of 4  ██████░░░░░░
	filled := clamp(v.Number*progressWidth/session.StepCount, 1, progressWidth)
	bar := t.ProgressOn.Render(strings.Repeat("█", filled)) +
		t.ProgressOf.Render(strings.Repeat("░", progressWidth-filled))
	caption := t.Caption.Render(v.Caption) + "  " + bar

	lines := []string{caption, "", t.Title.Render(v.Title)}
	if v.Subtitle != "" {
		lines = append(lines, t.Subtitle.Width(m.contentWidth()).Render(v.Subtitle))
	}
	lines = append(lines, "")
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderBody draws the scrollable part of the current step.
func (m Model) renderBody(v flow.View) string {
	switch v.Step {
	case session.StepWelcome:
		return m.md.Render(v.Body)
	case session.StepBuild:
		return m.renderBuild(v)
	case session.StepShapes:
		return m.renderShapes(v)
	case session.StepWhy:
		return m.renderWhy(v)
	}
	return ""
}

func (m Model) renderBuild(v flow.View) string {
	t := m.theme
	width := m.contentWidth()

	var sb strings.Builder
	sb.WriteString(t.Prompt.Width(width).Render(v.Prompt))
	sb.WriteString("\n\n")

	for i, opt := range v.Options {
		pointer := "  "
		if i == m.cursor {
			pointer = t.Cursor.Render("›") + " "
		}
		box := t.Unchecked.Render("[ ]")
		if opt.Checked {
			box = t.Checked.Render("[x]")
		}
		num := t.KeyHint.Render(padRight(fmt.Sprintf("%d.", i+1), 3))
		label := truncate(opt.Label, width-10)
		if i == m.cursor {
			label = t.Cursor.Render(label)
		}
		sb.WriteString(pointer + box + " " + num + " " + label + "\n")
	}

	if v.Hint != "" {
		sb.WriteString("\n" + t.Hint.Render(v.Hint))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// optionLine returns the body line holding option idx.
func (m Model) optionLine(idx int) int {
	return lipgloss.Height(m.theme.Prompt.Width(m.contentWidth()).Render(m.view.Prompt)) + 1 + idx
}

func (m Model) renderShapes(v flow.View) string {
	t := m.theme
	inner := m.contentWidth() - 2

	if len(v.Blocks) == 0 {
		return t.Hint.Render("None of your selections are in the current catalog.")
	}

	cards := make([]string, 0, len(v.Blocks))
	for _, b := range v.Blocks {
		lines := []string{t.CardTitle.Render(truncate(b.Label, inner))}
		for _, insight := range b.Insights {
			lines = append(lines, t.Bullet.Width(inner).Render("• "+insight))
		}
		lines = append(lines, "", t.Quote.Width(inner).Render(flow.Quoted(b.Quote)))
		cards = append(cards, t.Card.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}
	return strings.TrimRight(lipgloss.JoinVertical(lipgloss.Left, cards...), "\n ")
}

func (m Model) renderWhy(v flow.View) string {
	t := m.theme
	width := m.contentWidth()

	sections := []string{
		m.md.Render(v.Body),
		"",
		t.Heading.Render(v.VoicesHeading),
		"",
		m.renderVoices(v.Voices, width),
	}
	if m.showFooter && v.Footer != "" {
		sections = append(sections, "", t.Footer.Width(width).Align(lipgloss.Center).Render(v.Footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderVoices lays quotes out two per row when there is room, one per row
// otherwise.
func (m Model) renderVoices(voices []string, width int) string {
	t := m.theme
	cols := 1
	if width >= 60 {
		cols = 2
	}
	gap := 1
	colWidth := (width - gap*(cols-1)) / cols
	// Width applies to content+padding; the rounded border adds two cells.
	style := t.Voice.Width(colWidth - 2)

	var rows []string
	for i := 0; i < len(voices); i += cols {
		var cells []string
		for j := i; j < i+cols && j < len(voices); j++ {
			if j > i {
				cells = append(cells, strings.Repeat(" ", gap))
			}
			cells = append(cells, style.Render(flow.Quoted(voices[j])))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderBottom draws the action buttons, status line and key help.
func (m Model) renderBottom() string {
	t := m.theme
	v := m.view

	var buttons []string
	for _, a := range v.Actions {
		buttons = append(buttons, t.Button.Render(a.String()))
	}
	if v.Step == session.StepBuild && !v.HasAction(flow.ActionFinish) {
		buttons = append(buttons, t.ButtonOff.Render(flow.ActionFinish.String()))
	}

	lines := []string{"", strings.Join(buttons, "  ")}
	if m.statusMsg != "" {
		style := t.Status
		if m.statusIsError {
			style = t.StatusErr
		}
		lines = append(lines, style.Render(truncate(m.statusMsg, m.contentWidth())))
	}
	h := m.help
	h.Width = m.contentWidth()
	lines = append(lines, h.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
