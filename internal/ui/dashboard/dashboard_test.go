package dashboard

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/regdash/internal/mocks"
	"github.com/zjrosen/regdash/internal/registration"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func testUser() *registration.User {
	return &registration.User{
		ID:       "u1",
		Name:     "Jane Doe",
		Username: "janed",
		Email:    "jane@example.com",
		Gender:   "female",
		Country:  "Canada",
		Hobbies:  []string{"Reading", "Coding", "Art"},
	}
}

func TestView_LoadingWithoutUser(t *testing.T) {
	m := New(nil).SetSize(60, 10)

	view := m.View()
	require.Contains(t, view, "Loading...")
	require.NotContains(t, view, "Welcome")
	require.NotContains(t, view, "Logout")
}

func TestView_Profile(t *testing.T) {
	m := New(nil).SetSize(100, 40).SetUser(testUser())

	view := m.View()
	require.Contains(t, view, "Welcome, Jane Doe! 🎉")
	require.Contains(t, view, "Logout")
	require.Contains(t, view, "User Profile")
	for _, want := range []string{"Full Name", "Jane Doe", "Username", "janed", "Email", "jane@example.com", "Country", "Canada"} {
		require.Contains(t, view, want)
	}
	require.Contains(t, view, "Female", "gender is capitalized")
	require.NotContains(t, view, "female")
	require.NotContains(t, view, "Loading...")
}

func TestView_HobbyBadgesKeepOrder(t *testing.T) {
	m := New(nil).SetSize(100, 40).SetUser(testUser())

	view := m.View()
	reading := strings.Index(view, "Reading")
	coding := strings.Index(view, "Coding")
	art := strings.Index(view, "Art")
	require.Positive(t, reading)
	require.Less(t, reading, coding)
	require.Less(t, coding, art)
}

func TestRenderHobbies_Wraps(t *testing.T) {
	user := testUser()
	user.Hobbies = registration.Hobbies
	m := New(nil).SetUser(user)

	rows := m.renderHobbies(40)
	require.Greater(t, len(rows), 1)
	for _, row := range rows {
		require.LessOrEqual(t, lipgloss.Width(row), 40)
	}

	joined := strings.Join(rows, "\n")
	last := -1
	for _, h := range registration.Hobbies {
		i := strings.Index(joined, h)
		require.Greater(t, i, last, "%s out of order", h)
		last = i
	}
}

func TestView_TruncatesLongValues(t *testing.T) {
	user := testUser()
	user.Email = strings.Repeat("a", 80) + "@example.com"
	m := New(nil).SetSize(60, 40).SetUser(user)

	view := m.View()
	require.Contains(t, view, "...")
	for _, line := range strings.Split(view, "\n") {
		require.LessOrEqual(t, lipgloss.Width(line), 60)
	}
}

func TestLogout_DelegatesToSession(t *testing.T) {
	collab := mocks.NewMockCollaborator(t)
	collab.EXPECT().Logout(mock.Anything).Return(nil).Once()
	m := New(collab).SetUser(testUser())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	require.True(t, m.LoggingOut())
	require.Contains(t, m.View(), "Logging out...")
	require.NotNil(t, cmd)

	msg := cmd()
	require.Equal(t, LoggedOutMsg{}, msg)

	m, _ = m.Update(msg)
	require.False(t, m.LoggingOut())
}

func TestLogout_IgnoredWhileInFlightOrLoading(t *testing.T) {
	m := New(nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Nil(t, cmd, "no user, nothing to log out")

	m = m.SetUser(testUser())
	m.loggingOut = true
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Nil(t, cmd)
}

func TestLogout_ErrorClearsInFlight(t *testing.T) {
	m := New(nil).SetUser(testUser())
	m.loggingOut = true

	m, _ = m.Update(LoggedOutMsg{Err: errors.New("boom")})
	require.False(t, m.LoggingOut())
	require.NotNil(t, m.User(), "the session decides whether the user is gone")
}

func TestLogout_Click(t *testing.T) {
	collab := mocks.NewMockCollaborator(t)
	collab.EXPECT().Logout(mock.Anything).Return(nil).Once()
	m := New(collab).SetSize(100, 40).SetUser(testUser())

	var z *zone.ZoneInfo
	for retries := 0; retries < 10; retries++ {
		_ = zone.Scan(m.View())
		z = zone.Get(zoneLogout)
		if z != nil && !z.IsZero() {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	m, cmd := m.Update(tea.MouseMsg{X: z.StartX, Y: z.StartY, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	require.True(t, m.LoggingOut())
	require.NotNil(t, cmd)
	_ = cmd()
}
