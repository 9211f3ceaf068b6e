// Package help contains the help overlay component.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/regdash/internal/keys"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/registration"
	"github.com/zjrosen/regdash/internal/ui/markdown"
	"github.com/zjrosen/regdash/internal/ui/overlay"
	"github.com/zjrosen/regdash/internal/ui/styles"
)

var (
	titleStyle   lipgloss.Style
	dividerStyle lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
	boxStyle     lipgloss.Style
	footerStyle  lipgloss.Style
	contentStyle = lipgloss.NewStyle().Padding(0, 2)
)

func init() {
	rebuildStyles()
	styles.RegisterStyleRebuilder(rebuildStyles)
}

func rebuildStyles() {
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(2)
	dividerStyle = lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).MarginTop(1)
	keyStyle = lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Width(13)
	descStyle = lipgloss.NewStyle().Foreground(styles.TextDescriptionColor)
	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(styles.OverlayBorderColor)
	footerStyle = lipgloss.NewStyle().Foreground(styles.TextMutedColor).MarginTop(1)
}

// Mode selects which view's help is shown.
type Mode int

const (
	ModeForm Mode = iota
	ModeDashboard
)

// rulesWidth is the wrap width of the rendered field rules.
const rulesWidth = 44

// Model holds the help view state.
type Model struct {
	formKeys      keys.FormKeyMap
	dashboardKeys keys.DashboardKeyMap
	mode          Mode
	rules         string
	width         int
	height        int
}

// New creates the help view. markdownStyle is passed to the markdown
// renderer ("dark", "light" or "notty").
func New(mode Mode, markdownStyle string) Model {
	return Model{
		formKeys:      keys.DefaultFormKeyMap(),
		dashboardKeys: keys.DefaultDashboardKeyMap(),
		mode:          mode,
		rules:         renderRules(markdownStyle),
	}
}

// Mode returns the view the help describes.
func (m Model) Mode() Mode {
	return m.mode
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help box centered in the viewport.
func (m Model) View() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderContent())
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	if background == "" {
		return m.View()
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.renderContent(), background)
}

func (m Model) renderContent() string {
	var title string
	var body strings.Builder
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	switch m.mode {
	case ModeDashboard:
		title = "Dashboard"
		var actions, general strings.Builder
		actions.WriteString(sectionStyle.Render("Actions") + "\n")
		actions.WriteString(renderBinding(m.dashboardKeys.Logout))
		general.WriteString(sectionStyle.Render("General") + "\n")
		general.WriteString(renderBinding(m.dashboardKeys.Help))
		general.WriteString(renderBinding(m.dashboardKeys.Quit))
		body.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columnStyle.Render(actions.String()), general.String()))

	default:
		title = "Create Account"
		k := m.formKeys
		var nav, actions strings.Builder
		nav.WriteString(sectionStyle.Render("Navigation") + "\n")
		for _, b := range []key.Binding{k.Next, k.Prev, k.Left, k.Right} {
			nav.WriteString(renderBinding(b))
		}
		actions.WriteString(sectionStyle.Render("Actions") + "\n")
		for _, b := range []key.Binding{k.Toggle, k.Submit, k.SubmitAnywhere, k.TogglePassword, k.Help, k.Quit} {
			actions.WriteString(renderBinding(b))
		}
		body.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columnStyle.Render(nav.String()), actions.String()))
		body.WriteString("\n")
		body.WriteString(sectionStyle.Render("Field rules"))
		body.WriteString("\n")
		body.WriteString(m.rules)
	}
	body.WriteString("\n")
	body.WriteString(footerStyle.Render("Press Esc to close"))

	content := contentStyle.Render(body.String())
	boxWidth := lipgloss.Width(content)

	var out strings.Builder
	out.WriteString(titleStyle.Render(title + " Help"))
	out.WriteString("\n")
	out.WriteString(dividerStyle.Render(strings.Repeat("─", boxWidth)))
	out.WriteString("\n")
	out.WriteString(content)
	return boxStyle.Width(boxWidth).Render(out.String())
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	return keyStyle.Render(h.Key) + descStyle.Render(h.Desc) + "\n"
}

// RulesMarkdown describes the client-side validation rules.
func RulesMarkdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **Full name**, **username**, **email**: required\n")
	fmt.Fprintf(&b, "- **Email** must look like `name@host.tld`\n")
	fmt.Fprintf(&b, "- **Password**: at least %d characters, entered twice\n", registration.MinPasswordLength)
	fmt.Fprintf(&b, "- **Gender**: one of %s\n", genderLabels())
	fmt.Fprintf(&b, "- **Hobbies**: pick at least one of %d\n", len(registration.Hobbies))
	fmt.Fprintf(&b, "- **Country**: pick one of %d\n", len(registration.Countries))
	return b.String()
}

func genderLabels() string {
	labels := make([]string, len(registration.Genders))
	for i, g := range registration.Genders {
		labels[i] = g.Label()
	}
	return strings.Join(labels, ", ")
}

// renderRules renders RulesMarkdown, falling back to the raw markdown when
// glamour fails.
func renderRules(style string) string {
	src := RulesMarkdown()
	r, err := markdown.New(rulesWidth, style)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to create markdown renderer", err)
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to render help markdown", err)
		return src
	}
	return strings.Trim(out, "\n")
}
