// Package dashboard renders the signed-in user's profile.
package dashboard

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/regdash/internal/keys"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/registration"
	"github.com/zjrosen/regdash/internal/ui/styles"
)

// Logouter ends the current session. *auth.Session satisfies it.
type Logouter interface {
	Logout(ctx context.Context) error
}

// LoggedOutMsg reports the outcome of a logout request.
type LoggedOutMsg struct {
	Err error
}

const (
	zoneLogout = "dashboard-logout"

	maxWidth     = 88
	profileLines = 8
)

// Model is the dashboard state. A nil user renders the loading placeholder.
type Model struct {
	session    Logouter
	keys       keys.DashboardKeyMap
	user       *registration.User
	loggingOut bool

	width  int
	height int
}

// New creates a dashboard with no user yet.
func New(session Logouter) Model {
	return Model{
		session: session,
		keys:    keys.DefaultDashboardKeyMap(),
	}
}

// SetUser sets the user shown.
func (m Model) SetUser(user *registration.User) Model {
	m.user = user
	return m
}

// User returns the user shown, nil while loading.
func (m Model) User() *registration.User {
	return m.user
}

// LoggingOut reports whether a logout request is in flight.
func (m Model) LoggingOut() bool {
	return m.loggingOut
}

// SetSize sets the available screen area.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Logout) {
			return m.logout()
		}

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			if z := zone.Get(zoneLogout); z != nil && z.InBounds(msg) {
				return m.logout()
			}
		}

	case LoggedOutMsg:
		m.loggingOut = false
	}
	return m, nil
}

// logout hands the request to the session. The session announces the
// sign-out; the dashboard only tracks the in-flight state.
func (m Model) logout() (Model, tea.Cmd) {
	if m.user == nil || m.loggingOut {
		return m, nil
	}
	m.loggingOut = true
	session := m.session
	log.Info(log.CatUI, "Logout requested", "user", m.user.Username)
	return m, func() tea.Msg {
		return LoggedOutMsg{Err: session.Logout(context.Background())}
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.user == nil {
		return m.loading()
	}

	width := maxWidth
	if m.width > 0 {
		width = max(min(m.width-4, maxWidth), 40)
	}

	header := m.renderHeader(width)
	profile := styles.RenderWithTitleBorder(m.renderProfile(width-2), "User Profile", width, profileLines+2, false, styles.AccentColor, styles.AccentColor)
	hobbyRows := m.renderHobbies(width - 4)
	hobbies := styles.RenderWithTitleBorder(strings.Join(hobbyRows, "\n"), "Hobbies", width, len(hobbyRows)+2, false, styles.AccentColor, styles.AccentColor)
	footer := styles.HintStyle.Render("L logout · ? help · q quit")

	content := lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", profile, "", hobbies, "", footer),
	)
	if m.width > 0 {
		content = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, content)
	}
	return content
}

func (m Model) loading() string {
	text := styles.ValueStyle.Render("Loading...")
	if m.width <= 0 || m.height <= 0 {
		return text
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, text)
}

func (m Model) renderHeader(width int) string {
	label := "Logout"
	style := styles.DangerButtonStyle
	if m.loggingOut {
		label = "Logging out..."
		style = styles.DisabledButtonStyle
	}
	button := zone.Mark(zoneLogout, style.Render(label))

	titleWidth := max(width-lipgloss.Width(button)-1, 1)
	title := styles.TitleStyle.Render(styles.TruncateString("Welcome, "+m.user.Name+"! 🎉", titleWidth))
	gap := max(width-lipgloss.Width(title)-lipgloss.Width(button), 1)
	return title + strings.Repeat(" ", gap) + button
}

// renderProfile lays out two columns: identity on the left, gender and
// country on the right. Values are truncated to the column width.
func (m Model) renderProfile(innerWidth int) string {
	colWidth := max((innerWidth-3)/2, 10)

	item := func(label, value string) string {
		return " " + styles.LabelStyle.Bold(true).Render(label) + "\n" +
			" " + styles.ValueStyle.Render(styles.TruncateString(value, colWidth-1))
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		item("Full Name", m.user.Name), "",
		item("Username", m.user.Username), "",
		item("Email", m.user.Email),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		item("Gender", registration.Capitalize(m.user.Gender)), "",
		item("Country", m.user.Country),
	)

	left = lipgloss.NewStyle().Width(colWidth).Render(left)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
}

// renderHobbies lays badges out in order, wrapping to the next row when
// the current one is full.
func (m Model) renderHobbies(innerWidth int) []string {
	if len(m.user.Hobbies) == 0 {
		return []string{" " + styles.HintStyle.Render("No hobbies")}
	}

	badges := make([]string, len(m.user.Hobbies))
	for i, h := range m.user.Hobbies {
		badges[i] = styles.BadgeStyle.Render(h)
	}
	return styles.WrapItems(badges, innerWidth, " ")
}
