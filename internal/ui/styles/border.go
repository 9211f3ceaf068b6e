package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderWithTitleBorder renders content in a fixed-size box with the title
// embedded in the top border: ╭─ Title ─────╮
// titleColor is used for the title text, focusedBorderColor for the border
// when focused. Content is wrapped to the inner width and clipped to the
// inner height.
func RenderWithTitleBorder(content, title string, width, height int, focused bool, titleColor, focusedBorderColor lipgloss.TerminalColor) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = focusedBorderColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(titleColor)

	innerWidth := max(width-2, 1)
	contentHeight := max(height-2, 1)

	topBorder := buildTopBorder(title, innerWidth, borderStyle, titleStyle)
	bottomBorder := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	constrained := lipgloss.NewStyle().Width(innerWidth).Height(contentHeight).Render(content)
	contentLines := strings.Split(constrained, "\n")

	var b strings.Builder
	b.WriteString(topBorder)
	for i := 0; i < contentHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString("\n")
		b.WriteString(borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical))
	}
	b.WriteString("\n")
	b.WriteString(bottomBorder)
	return b.String()
}

// buildTopBorder creates the top border with embedded title, falling back
// to a plain border when there is no room for one.
func buildTopBorder(title string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if title == "" || innerWidth < 4 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	// "─ " before and " ─" after at minimum
	displayTitle := TruncateString(title, innerWidth-4)
	remaining := max(innerWidth-3-lipgloss.Width(displayTitle), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(displayTitle) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, remaining)+borderTopRight)
}
