package styles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders holds callbacks to rebuild styles in other packages.
var styleRebuilders []func()

// RegisterStyleRebuilder adds a callback that will be called after ApplyTheme
// updates colors. Use this to rebuild styles in packages that depend on styles.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// Theme mirrors config.ThemeConfig to avoid circular imports. Empty values
// keep the built-in colors.
type Theme struct {
	Accent  string
	Muted   string
	Error   string
	Success string
}

type palette struct {
	accent, muted, errorColor, success lipgloss.AdaptiveColor
}

var defaults = palette{
	accent:     AccentColor,
	muted:      TextMutedColor,
	errorColor: StatusErrorColor,
	success:    StatusSuccessColor,
}

// ApplyTheme validates t and applies it on top of the built-in colors, so
// removing an override restores the default. Styles are rebuilt.
func ApplyTheme(t Theme) error {
	p := defaults
	overrides := []struct {
		key   string
		value string
		dst   *lipgloss.AdaptiveColor
	}{
		{"theme.accent", t.Accent, &p.accent},
		{"theme.muted", t.Muted, &p.muted},
		{"theme.error", t.Error, &p.errorColor},
		{"theme.success", t.Success, &p.success},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		if !isValidHexColor(o.value) {
			return fmt.Errorf("invalid hex color for %s: %s", o.key, o.value)
		}
		*o.dst = lipgloss.AdaptiveColor{Light: o.value, Dark: o.value}
	}

	AccentColor = p.accent
	ToastBorderInfoColor = p.accent
	TextMutedColor = p.muted
	BorderDefaultColor = p.muted
	StatusErrorColor = p.errorColor
	ToastBorderErrorColor = p.errorColor
	StatusSuccessColor = p.success
	ToastBorderSuccessColor = p.success

	rebuildStyles()
	return nil
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
