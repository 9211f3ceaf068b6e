package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TruncateString truncates a string to fit within maxWidth terminal cells,
// adding an ellipsis if needed. Wide runes (CJK, emoji) count as two cells.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// WrapItems lays rendered items out in order, one space apart, starting a
// new line whenever the next item would pass width. Each line begins with
// indent. An item wider than width gets a line to itself.
func WrapItems(items []string, width int, indent string) []string {
	lines := make([]string, 0, 1)
	line := indent
	for _, item := range items {
		if line != indent && lipgloss.Width(line)+1+lipgloss.Width(item) > width {
			lines = append(lines, line)
			line = indent
		}
		if line != indent {
			line += " "
		}
		line += item
	}
	return append(lines, line)
}
