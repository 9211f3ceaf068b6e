package register

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/regdash/internal/registration"
	"github.com/zjrosen/regdash/internal/ui/styles"
)

const (
	maxFormWidth = 72
	minFormWidth = 40

	labelSubmit  = "Sign Up"
	labelLoading = "Creating Account..."
)

var fieldLabels = map[registration.Field]string{
	registration.FieldName:            "Full Name *",
	registration.FieldUsername:        "Username *",
	registration.FieldEmail:           "Email Address *",
	registration.FieldPassword:        "Password *",
	registration.FieldConfirmPassword: "Confirm Password *",
	registration.FieldGender:          "Gender *",
	registration.FieldHobbies:         "Hobbies *",
	registration.FieldCountry:         "Country *",
}

// SubmitLabel returns the text on the submit button.
func (m Model) SubmitLabel() string {
	if m.loading {
		return labelLoading
	}
	return labelSubmit
}

// Banner returns the server error shown above the form: the first message
// of the first field the API reported. Empty when there is none.
func (m Model) Banner() string {
	_, msg, ok := m.serverErrors.First()
	if !ok {
		return ""
	}
	return msg
}

func (m Model) formWidth() int {
	if m.width <= 0 {
		return maxFormWidth
	}
	return max(min(m.width-4, maxFormWidth), minFormWidth)
}

// View renders the form. Zones are marked but not scanned; the caller
// runs zone.Scan on the final frame.
func (m Model) View() string {
	width := m.formWidth()
	var b strings.Builder
	focusLine := 0

	b.WriteString(styles.TitleStyle.Render("Create an Account"))
	b.WriteString("\n")
	b.WriteString(styles.HintStyle.Render("Enter your details to create your account"))
	b.WriteString("\n\n")

	if banner := m.Banner(); banner != "" {
		wrapped := wordwrap.String("! "+banner, width-4)
		b.WriteString(styles.BannerStyle.Width(width - 2).Render(wrapped))
		b.WriteString("\n\n")
	}

	for i, f := range registration.Fields {
		if i == m.focus {
			focusLine = strings.Count(b.String(), "\n")
		}
		section := m.renderField(i, width)
		if i < textFieldCount {
			// Option fields mark each option instead.
			section = zone.Mark(zoneFieldPrefix+string(f), section)
		}
		b.WriteString(section)
		b.WriteString("\n")
		if msg, ok := m.clientErrors[f]; ok {
			b.WriteString(styles.FieldErrorStyle.Render(" " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.focus == submitFocus {
		focusLine = strings.Count(b.String(), "\n")
	}
	b.WriteString(zone.Mark(zoneSubmit, m.renderSubmit(width)))
	b.WriteString("\n\n")
	b.WriteString(styles.HintStyle.Render("Already have an account? Sign in from the web app."))
	b.WriteString("\n")
	b.WriteString(styles.HintStyle.Render("tab next · ctrl+s create account · ctrl+t show password · f1 help"))

	content := lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	if m.width > 0 {
		content = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, content)
	}

	total := lipgloss.Height(content)
	if m.height <= 0 || total <= m.height {
		return content
	}

	// Keep the focused control in view, about a third of the way down.
	vp := viewport.New(lipgloss.Width(content), m.height)
	vp.SetContent(content)
	vp.SetYOffset(max(focusLine+1-m.height/3, 0))
	return vp.View()
}

func (m Model) renderField(i, width int) string {
	f := registration.Fields[i]
	focused := m.focus == i
	_, invalid := m.clientErrors[f]
	label := fieldLabels[f]

	switch f {
	case registration.FieldGender:
		return styles.RenderFormSection(m.genderRows(focused), label, "", width, focused, invalid)
	case registration.FieldHobbies:
		return styles.RenderFormSection(m.hobbyRows(focused, width-2), label, "select at least one", width, focused, invalid)
	case registration.FieldCountry:
		return styles.RenderFormSection([]string{m.countryRow(focused)}, label, "", width, focused, invalid)
	}

	hint := ""
	if f == registration.FieldPassword {
		hint = "ctrl+t show"
		if m.showPassword {
			hint = "ctrl+t hide"
		}
	}
	return styles.RenderFormSection([]string{" " + m.inputs[i].View()}, label, hint, width, focused, invalid)
}

func (m Model) genderRows(focused bool) []string {
	var row strings.Builder
	for i, g := range registration.Genders {
		prefix := " "
		if focused && i == m.genderCursor {
			prefix = styles.SelectionIndicatorStyle.Render(">")
		}
		radio := "( )"
		if m.form.Gender == g {
			radio = "(●)"
		}
		row.WriteString(zone.Mark(zoneGenderPrefix+string(g), prefix+radio+" "+g.Label()))
		row.WriteString("  ")
	}
	return []string{row.String()}
}

func (m Model) hobbyRows(focused bool, innerWidth int) []string {
	cols := 4
	if innerWidth < 4*hobbyCellWidth {
		cols = 2
	}

	var rows []string
	var row strings.Builder
	for i, h := range registration.Hobbies {
		prefix := " "
		if focused && i == m.hobbyCursor {
			prefix = styles.SelectionIndicatorStyle.Render(">")
		}
		checkbox := "[ ]"
		if m.form.HasHobby(h) {
			checkbox = "[x]"
		}
		cell := prefix + checkbox + " " + h
		if pad := hobbyCellWidth - lipgloss.Width(cell); pad > 0 {
			cell += strings.Repeat(" ", pad)
		}
		row.WriteString(zone.Mark(zoneHobbyPrefix+h, cell))

		if (i+1)%cols == 0 || i == len(registration.Hobbies)-1 {
			rows = append(rows, row.String())
			row.Reset()
		}
	}
	return rows
}

// hobbyCellWidth fits the longest hobby ("Photography") with its checkbox.
const hobbyCellWidth = 17

func (m Model) countryRow(focused bool) string {
	if !focused {
		value := styles.HintStyle.Render("Select your country")
		if m.form.Country != "" {
			value = styles.ValueStyle.Render(m.form.Country)
		}
		return zone.Mark(zoneFieldPrefix+string(registration.FieldCountry), " "+value)
	}

	c := registration.Countries[m.countryCursor]
	radio := "( )"
	if m.form.Country == c {
		radio = "(●)"
	}
	return styles.SelectionIndicatorStyle.Render(">") +
		zone.Mark(zoneCountryPrev, "‹") + " " + radio + " " + c + " " +
		zone.Mark(zoneCountryNext, "›") + "  " +
		styles.HintStyle.Render("←/→ browse · space select")
}

func (m Model) renderSubmit(width int) string {
	style := styles.PrimaryButtonStyle
	switch {
	case m.loading:
		style = styles.DisabledButtonStyle
	case m.focus == submitFocus:
		style = styles.PrimaryButtonFocusedStyle
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(m.SubmitLabel()))
}
