// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Field labels
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#696969"} // Hints, help text, footers
	TextDescriptionColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"} // Profile values
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#777777"} // Input placeholders

	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#B0B0B0", Dark: "#696969"} // Unfocused borders
	AccentColor        = lipgloss.AdaptiveColor{Light: "#2E86DE", Dark: "#54A0FF"} // Focus, cursor, headings

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}

	// Button colors
	ButtonTextColor           = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor      = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonPrimaryFocusBgColor = lipgloss.AdaptiveColor{Light: "#3498DB", Dark: "#3498DB"}
	ButtonDangerBgColor       = lipgloss.AdaptiveColor{Light: "#922B21", Dark: "#922B21"}
	ButtonDangerFocusBgColor  = lipgloss.AdaptiveColor{Light: "#E74C3C", Dark: "#E74C3C"}
	ButtonDisabledBgColor     = lipgloss.AdaptiveColor{Light: "#2D2D2D", Dark: "#2D2D2D"}

	// Hobby badges
	BadgeTextColor = lipgloss.AdaptiveColor{Light: "#1E3A5F", Dark: "#D6E9FF"}
	BadgeBgColor   = lipgloss.AdaptiveColor{Light: "#DCEBFF", Dark: "#1E3A5F"}

	// Overlay colors
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#B0B0B0", Dark: "#8C8C8C"}

	// Toast notification colors
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#2E86DE", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
)

// Styles built from the colors above. rebuildStyles refreshes them after
// a theme change.
var (
	TitleStyle              lipgloss.Style
	LabelStyle              lipgloss.Style
	FocusedLabelStyle       lipgloss.Style
	HintStyle               lipgloss.Style
	ValueStyle              lipgloss.Style
	FieldErrorStyle         lipgloss.Style
	BannerStyle             lipgloss.Style
	SelectionIndicatorStyle lipgloss.Style
	BadgeStyle              lipgloss.Style

	PrimaryButtonStyle        lipgloss.Style
	PrimaryButtonFocusedStyle lipgloss.Style
	DangerButtonStyle         lipgloss.Style
	DangerButtonFocusedStyle  lipgloss.Style
	DisabledButtonStyle       lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	LabelStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
	FocusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	HintStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ValueStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	FieldErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	BannerStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(StatusErrorColor).
		Padding(0, 1)
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	BadgeStyle = lipgloss.NewStyle().
		Foreground(BadgeTextColor).
		Background(BadgeBgColor).
		Padding(0, 1)

	baseButtonStyle := lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(ButtonTextColor)
	PrimaryButtonStyle = baseButtonStyle.Background(ButtonPrimaryBgColor)
	PrimaryButtonFocusedStyle = baseButtonStyle.
		Background(ButtonPrimaryFocusBgColor).
		Underline(true).
		UnderlineSpaces(true)
	DangerButtonStyle = baseButtonStyle.Background(ButtonDangerBgColor)
	DangerButtonFocusedStyle = baseButtonStyle.
		Background(ButtonDangerFocusBgColor).
		Underline(true).
		UnderlineSpaces(true)
	DisabledButtonStyle = baseButtonStyle.
		Bold(false).
		Foreground(TextMutedColor).
		Background(ButtonDisabledBgColor)

	for _, fn := range styleRebuilders {
		fn()
	}
}
