package app

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/regdash/internal/auth"
	"github.com/zjrosen/regdash/internal/config"
	"github.com/zjrosen/regdash/internal/mocks"
	"github.com/zjrosen/regdash/internal/registration"
	"github.com/zjrosen/regdash/internal/ui/dashboard"
	"github.com/zjrosen/regdash/internal/ui/styles"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// createTestModel creates a Model over a mocked collaborator. It does not
// watch any config file.
func createTestModel(t *testing.T) (Model, *mocks.MockCollaborator) {
	t.Helper()
	collab := mocks.NewMockCollaborator(t)
	broker := auth.NewBroker()
	t.Cleanup(broker.Close)

	m := New(Options{
		Session: auth.NewSession(collab, broker),
		Config:  config.Defaults(),
	})
	t.Cleanup(func() { _ = m.Close() })

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 80})
	return newModel.(Model), collab
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	newModel, cmd := m.Update(msg)
	return newModel.(Model), cmd
}

func testUser() *registration.User {
	return &registration.User{
		ID:       "u1",
		Name:     "Jane Doe",
		Username: "janed",
		Email:    "jane@example.com",
		Gender:   "female",
		Country:  "Canada",
		Hobbies:  []string{"Reading", "Coding"},
	}
}

func TestApp_StartsOnLoadingDashboard(t *testing.T) {
	m, _ := createTestModel(t)

	assert.Equal(t, ViewDashboard, m.Current())
	assert.Contains(t, m.View(), "Loading...")
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m, _ := createTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})

	assert.Equal(t, 120, m.width, "expected width to be updated")
	assert.Equal(t, 50, m.height, "expected height to be updated")
}

func TestApp_GuestIsSentToRegister(t *testing.T) {
	m, _ := createTestModel(t)

	m, cmd := update(t, m, auth.Event{Type: auth.EventResolved})

	assert.Equal(t, ViewRegister, m.Current())
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Create an Account")
}

func TestApp_ResolvedUserStaysOnDashboard(t *testing.T) {
	m, _ := createTestModel(t)

	m, _ = update(t, m, auth.Event{Type: auth.EventResolved, User: testUser()})

	assert.Equal(t, ViewDashboard, m.Current())
	view := m.View()
	assert.Contains(t, view, "Welcome, Jane Doe! 🎉")
	assert.NotContains(t, view, "Loading...")
}

func TestApp_SignedInLeavesRegister(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = update(t, m, auth.Event{Type: auth.EventResolved})
	require.Equal(t, ViewRegister, m.Current())

	m, _ = update(t, m, auth.Event{Type: auth.EventSignedIn, User: testUser()})

	assert.Equal(t, ViewDashboard, m.Current())
	assert.True(t, m.toaster.Visible())
	assert.Contains(t, m.View(), "User Profile")
}

func TestApp_SignedOutStartsFreshForm(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = update(t, m, auth.Event{Type: auth.EventResolved})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Jane")})
	require.Equal(t, "Jane", m.register.Form().Name)

	m, _ = update(t, m, auth.Event{Type: auth.EventSignedIn, User: testUser()})
	m, _ = update(t, m, auth.Event{Type: auth.EventSignedOut})

	assert.Equal(t, ViewRegister, m.Current())
	assert.Empty(t, m.register.Form().Name)
	assert.Nil(t, m.dashboard.User())
}

func TestApp_ResolveFailureFallsBackToGuest(t *testing.T) {
	m, _ := createTestModel(t)

	m, _ = update(t, m, resolveFailedMsg{err: errors.New("dial tcp: connection refused")})

	assert.Equal(t, ViewRegister, m.Current())
	assert.True(t, m.toaster.Visible())
	assert.Contains(t, m.View(), "Could not reach the server")
}

func TestApp_Resolve_PublishesThroughListener(t *testing.T) {
	m, collab := createTestModel(t)
	collab.EXPECT().User(mock.Anything).Return(testUser(), nil).Once()

	require.Nil(t, m.resolve()())

	msg := m.listener.Listen()()
	ev, ok := msg.(auth.Event)
	require.True(t, ok, "expected auth.Event, got %T", msg)
	assert.Equal(t, auth.EventResolved, ev.Type)
	assert.Equal(t, "u1", ev.User.ID)
}

func TestApp_HelpOverlay(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = update(t, m, auth.Event{Type: auth.EventResolved})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Create Account Help")

	// Keys do not reach the form while help is open.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.Empty(t, m.register.Form().Name)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestApp_DashboardHelpAndQuit(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = update(t, m, auth.Event{Type: auth.EventResolved, User: testUser()})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Dashboard Help")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	require.False(t, m.showHelp)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QIsTypedOnRegister(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = update(t, m, auth.Event{Type: auth.EventResolved})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.Equal(t, "q", m.register.Form().Name)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_LogoutFailureShowsToast(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = update(t, m, auth.Event{Type: auth.EventResolved, User: testUser()})

	m, _ = update(t, m, dashboard.LoggedOutMsg{Err: &auth.StatusError{Op: "logout", Status: 500}})

	assert.Equal(t, ViewDashboard, m.Current())
	assert.True(t, m.toaster.Visible())
	assert.Contains(t, m.View(), "Logout failed")
}

func TestApp_ConfigChangeAppliesTheme(t *testing.T) {
	t.Cleanup(func() { _ = styles.ApplyTheme(styles.Theme{}) })

	m, _ := createTestModel(t)
	reloaded := config.Defaults()
	reloaded.Theme.Accent = "#112233"
	m.reload = func() (config.Config, error) { return reloaded, nil }

	m, _ = update(t, m, configChangedMsg{})

	assert.Equal(t, lipgloss.AdaptiveColor{Light: "#112233", Dark: "#112233"}, styles.AccentColor)
	assert.Equal(t, "#112233", m.cfg.Theme.Accent)
	assert.True(t, m.toaster.Visible())
}

func TestApp_ConfigChangeRejectsInvalidTheme(t *testing.T) {
	t.Cleanup(func() { _ = styles.ApplyTheme(styles.Theme{}) })

	m, _ := createTestModel(t)
	reloaded := config.Defaults()
	reloaded.Theme.Error = "red"
	m.reload = func() (config.Config, error) { return reloaded, nil }

	m, _ = update(t, m, configChangedMsg{})

	assert.Empty(t, m.cfg.Theme.Error)
	assert.Contains(t, m.View(), "invalid hex color for theme.error")
}

func TestApp_ConfigReloadError(t *testing.T) {
	m, _ := createTestModel(t)
	m.reload = func() (config.Config, error) { return config.Config{}, errors.New("bad yaml") }

	m, _ = update(t, m, configChangedMsg{})

	assert.Contains(t, m.View(), "Config reload failed")
}

func TestApp_ThemeFromConfig(t *testing.T) {
	got := ThemeFromConfig(config.ThemeConfig{Accent: "#000000", Success: "#FFFFFF"})
	assert.Equal(t, styles.Theme{Accent: "#000000", Success: "#FFFFFF"}, got)
}

// TestApp_RegisterFlow drives the full program: a guest lands on the form,
// registers, and is taken to the dashboard.
func TestApp_RegisterFlow(t *testing.T) {
	collab := mocks.NewMockCollaborator(t)
	broker := auth.NewBroker()
	t.Cleanup(broker.Close)

	user := testUser()
	collab.EXPECT().User(mock.Anything).Return(nil, nil).Once()
	collab.EXPECT().Register(mock.Anything, registration.Payload{
		Name:                 "Jane Doe",
		Username:             "janed",
		Email:                "jane@example.com",
		Password:             "password1",
		PasswordConfirmation: "password1",
		Gender:               "male",
		Hobbies:              []string{"Reading"},
		Country:              "United States",
	}).Return(nil, nil).Once()
	collab.EXPECT().User(mock.Anything).Return(user, nil).Once()

	m := New(Options{Session: auth.NewSession(collab, broker), Config: config.Defaults()})
	t.Cleanup(func() { _ = m.Close() })

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 80))
	waitFor := func(s string) {
		teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
			return bytes.Contains(bts, []byte(s))
		}, teatest.WithDuration(3*time.Second))
	}

	waitFor("Create an Account")

	tab := tea.KeyMsg{Type: tea.KeyTab}
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	tm.Type("Jane Doe")
	tm.Send(tab)
	tm.Type("janed")
	tm.Send(tab)
	tm.Type("jane@example.com")
	tm.Send(tab)
	tm.Type("password1")
	tm.Send(tab)
	tm.Type("password1")
	tm.Send(tab)
	tm.Send(space) // Male
	tm.Send(tab)
	tm.Send(space) // Reading
	tm.Send(tab)
	tm.Send(space) // United States
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlS})

	waitFor("Welcome, Jane Doe!")

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.Equal(t, ViewDashboard, final.Current())
	assert.Equal(t, "u1", final.dashboard.User().ID)
}
