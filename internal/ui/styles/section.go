package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderFormSection renders a bordered form field. The section grows with
// its content. The border is StatusErrorColor while the field is invalid,
// AccentColor while it has focus, and BorderDefaultColor otherwise. The
// hint is dropped, then the title truncated, when the top border is too
// narrow for them.
func RenderFormSection(content []string, title, hint string, width int, focused, invalid bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	switch {
	case invalid:
		borderColor = StatusErrorColor
	case focused:
		borderColor = AccentColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(borderColor)
	hintStyle := lipgloss.NewStyle().Foreground(TextMutedColor)

	innerWidth := max(width-2, 1)
	lines := make([]string, 0, len(content)+2)
	lines = append(lines, sectionTop(title, hint, innerWidth, borderStyle, titleStyle, hintStyle))

	for _, row := range content {
		padding := ""
		if w := lipgloss.Width(row); w < innerWidth {
			padding = strings.Repeat(" ", innerWidth-w)
		}
		lines = append(lines, borderStyle.Render(borderVertical)+row+padding+borderStyle.Render(borderVertical))
	}
	lines = append(lines, borderStyle.Render(borderBottomLeft+strings.Repeat(borderHorizontal, innerWidth)+borderBottomRight))

	return strings.Join(lines, "\n")
}

// sectionTop renders ╭─ Title (hint) ──────╮.
func sectionTop(title, hint string, innerWidth int, borderStyle, titleStyle, hintStyle lipgloss.Style) string {
	if title == "" {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	// "─ " before the label and " ─" after it
	room := innerWidth - 4
	if hint != "" && lipgloss.Width(title)+lipgloss.Width(hint)+3 > room {
		hint = ""
	}
	title = TruncateString(title, max(room, 1))

	label := titleStyle.Render(title)
	used := lipgloss.Width(title)
	if hint != "" {
		label += " " + hintStyle.Render("("+hint+")")
		used += lipgloss.Width(hint) + 3
	}
	dashesAfter := max(innerWidth-used-3, 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") + label +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, dashesAfter)+borderTopRight)
}
