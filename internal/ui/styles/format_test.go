package styles

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"fits", "Jane", 10, "Jane"},
		{"exact", "Jane", 4, "Jane"},
		{"truncated", "jane.doe@example.com", 10, "jane.do..."},
		{"wide runes", "山田太郎さん", 7, "山田..."},
		{"tiny width", "Jane Doe", 2, ".."},
		{"zero width", "Jane", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, TruncateString(tt.input, tt.maxWidth))
		})
	}
}

func TestTruncateString_Property_NeverExceedsWidth(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		w := rapid.IntRange(0, 40).Draw(rt, "w")

		got := TruncateString(s, w)
		require.LessOrEqual(rt, runewidth.StringWidth(got), w)
		if runewidth.StringWidth(s) <= w {
			require.Equal(rt, s, got)
		}
	})
}

func TestWrapItems(t *testing.T) {
	items := []string{"[Reading]", "[Coding]", "[Art]", "[Photography]"}

	require.Equal(t, []string{" [Reading] [Coding] [Art] [Photography]"}, WrapItems(items, 80, " "))
	require.Equal(t, []string{" [Reading] [Coding]", " [Art] [Photography]"}, WrapItems(items, 20, " "))
	require.Equal(t, []string{" [Reading]", " [Coding]", " [Art]", " [Photography]"}, WrapItems(items, 5, " "),
		"items wider than the width still get a line each")
	require.Equal(t, []string{" "}, WrapItems(nil, 10, " "))
}
