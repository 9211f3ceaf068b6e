package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestRenderWithTitleBorder_Size(t *testing.T) {
	got := RenderWithTitleBorder("Full Name: Jane Doe", "User Profile", 30, 5, false, AccentColor, AccentColor)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 5)
	require.Contains(t, lines[0], "User Profile")
	for _, line := range lines {
		require.Equal(t, 30, lipgloss.Width(line), "line %q", line)
	}
}

func TestRenderWithTitleBorder_ClipsContent(t *testing.T) {
	got := RenderWithTitleBorder("one\ntwo\nthree\nfour", "Card", 20, 4, false, AccentColor, AccentColor)

	require.Contains(t, got, "two")
	require.NotContains(t, got, "three")
}

func TestBuildTopBorder(t *testing.T) {
	plain := lipgloss.NewStyle()

	require.Equal(t, "╭─ Hobbies ────────╮", buildTopBorder("Hobbies", 18, plain, plain))
	require.Equal(t, "╭───╮", buildTopBorder("Hobbies", 3, plain, plain))
	require.Equal(t, "╭─ A very... ─╮", buildTopBorder("A very long title", 13, plain, plain))
}
