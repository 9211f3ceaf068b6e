// Package app contains the root application model.
package app

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/regdash/internal/auth"
	"github.com/zjrosen/regdash/internal/config"
	"github.com/zjrosen/regdash/internal/keys"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/registration"
	"github.com/zjrosen/regdash/internal/ui/dashboard"
	"github.com/zjrosen/regdash/internal/ui/help"
	"github.com/zjrosen/regdash/internal/ui/register"
	"github.com/zjrosen/regdash/internal/ui/styles"
	"github.com/zjrosen/regdash/internal/ui/toaster"
	"github.com/zjrosen/regdash/internal/watcher"
)

// View identifies the active screen.
type View int

const (
	// ViewDashboard is the auth-guarded profile screen. It is also the
	// start screen: with no user resolved yet it shows "Loading...".
	ViewDashboard View = iota
	// ViewRegister is the guest-guarded registration form.
	ViewRegister
)

func (v View) String() string {
	if v == ViewRegister {
		return "register"
	}
	return "dashboard"
}

// Options configures the application model.
type Options struct {
	Session *auth.Session
	Config  config.Config

	// ConfigPath is watched for edits when Reload is set; theme colors
	// from the reloaded config are applied live.
	ConfigPath string
	Reload     func() (config.Config, error)
}

type (
	resolveFailedMsg struct{ err error }
	configChangedMsg struct{}
)

// Model is the root application state.
type Model struct {
	session *auth.Session
	cfg     config.Config

	current   View
	register  register.Model
	dashboard dashboard.Model

	help     help.Model
	showHelp bool
	toaster  toaster.Model

	formKeys      keys.FormKeyMap
	dashboardKeys keys.DashboardKeyMap

	// Session events
	ctx      context.Context
	cancel   context.CancelFunc
	listener *auth.Listener

	// Config file watcher for live theme reload
	watcherHandle *watcher.Watcher
	configChanges <-chan struct{}
	reload        func() (config.Config, error)

	width  int
	height int
}

// New creates the application model. The session is resolved in Init;
// until then the dashboard shows its loading placeholder.
func New(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		session:       opts.Session,
		cfg:           opts.Config,
		current:       ViewDashboard,
		register:      register.New(opts.Session, register.Config{Debounce: opts.Config.Form.Debounce}),
		dashboard:     dashboard.New(opts.Session),
		toaster:       toaster.New(),
		formKeys:      keys.DefaultFormKeyMap(),
		dashboardKeys: keys.DefaultDashboardKeyMap(),
		ctx:           ctx,
		cancel:        cancel,
		listener:      auth.NewListener(ctx, opts.Session.Broker()),
		reload:        opts.Reload,
	}

	if opts.ConfigPath != "" && opts.Reload != nil {
		w, err := watcher.New(watcher.DefaultConfig(opts.ConfigPath))
		if err == nil {
			ch, err := w.Start()
			if err == nil {
				m.watcherHandle = w
				m.configChanges = ch
			} else {
				_ = w.Stop()
				log.Warn(log.CatWatcher, "Config watcher unavailable", "error", err)
			}
		}
		// The app works without live reload.
	}
	return m
}

// Init starts listening for session events and resolves the current user.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listener.Listen(), m.resolve()}
	if m.configChanges != nil {
		cmds = append(cmds, m.waitForConfigChange())
	}
	return tea.Batch(cmds...)
}

// Current returns the active view.
func (m Model) Current() View {
	return m.current
}

func (m Model) resolve() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		if _, err := session.Resolve(ctx); err != nil {
			return resolveFailedMsg{err: err}
		}
		// The outcome arrives as an auth.Event.
		return nil
	}
}

func (m Model) waitForConfigChange() tea.Cmd {
	ch, ctx := m.configChanges, m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return configChangedMsg{}
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.register = m.register.SetSize(msg.Width, msg.Height)
		m.dashboard = m.dashboard.SetSize(msg.Width, msg.Height)
		m.help = m.help.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.showHelp {
			if key.Matches(msg, keys.Overlay.Close) {
				m.showHelp = false
			}
			return m, nil
		}
		if m.current == ViewDashboard {
			switch {
			case key.Matches(msg, m.dashboardKeys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.dashboardKeys.Help):
				return m.openHelp(help.ModeDashboard), nil
			}
		} else if key.Matches(msg, m.formKeys.Help) {
			return m.openHelp(help.ModeForm), nil
		}

	case tea.MouseMsg:
		if !m.cfg.UI.Mouse || m.showHelp {
			return m, nil
		}

	case auth.Event:
		log.Debug(log.CatAuth, "Session event", "type", msg.Type, "signedIn", msg.User != nil)
		var cmd tea.Cmd
		m, cmd = m.applyGuards(msg.User)
		cmds := []tea.Cmd{cmd, m.listener.Listen()}
		switch msg.Type {
		case auth.EventSignedIn:
			cmds = append(cmds, m.showToast("Account created. Welcome, "+msg.User.Name+"!", toaster.StyleSuccess))
		case auth.EventSignedOut:
			cmds = append(cmds, m.showToast("Signed out", toaster.StyleInfo))
		}
		return m, tea.Batch(cmds...)

	case resolveFailedMsg:
		log.ErrorErr(log.CatAuth, "Session lookup failed, continuing as guest", msg.err)
		var cmd tea.Cmd
		m, cmd = m.applyGuards(nil)
		return m, tea.Batch(cmd, m.showToast("Could not reach the server. "+errorText(msg.err), toaster.StyleError))

	case dashboard.LoggedOutMsg:
		m.dashboard, _ = m.dashboard.Update(msg)
		if msg.Err != nil {
			return m, m.showToast("Logout failed. "+errorText(msg.Err), toaster.StyleError)
		}
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case configChangedMsg:
		return m, tea.Batch(m.reloadTheme(), m.waitForConfigChange())
	}

	return m.delegate(msg)
}

// delegate forwards msg to the active view.
func (m Model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.current {
	case ViewRegister:
		m.register, cmd = m.register.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	}
	return m, cmd
}

// applyGuards keeps the active view consistent with user: a guest is
// sent from the dashboard to the form, a signed-in user from the form to
// the dashboard.
func (m Model) applyGuards(user *registration.User) (Model, tea.Cmd) {
	m.dashboard = m.dashboard.SetUser(user)

	switch m.current {
	case ViewDashboard:
		if !auth.GuardAuth.Allows(user) {
			return m.switchTo(ViewRegister)
		}
	case ViewRegister:
		if !auth.GuardGuest.Allows(user) {
			return m.switchTo(ViewDashboard)
		}
	}
	return m, nil
}

func (m Model) switchTo(v View) (Model, tea.Cmd) {
	log.Info(log.CatUI, "Switching view", "from", m.current, "to", v)
	m.showHelp = false

	switch v {
	case ViewRegister:
		// Every visit starts from an empty form.
		m.register = m.register.Close()
		m.register = register.New(m.session, register.Config{Debounce: m.cfg.Form.Debounce}).SetSize(m.width, m.height)
		m.current = ViewRegister
		return m, m.register.Init()
	default:
		m.register = m.register.Close()
		m.current = ViewDashboard
		return m, nil
	}
}

func (m Model) openHelp(mode help.Mode) Model {
	m.help = help.New(mode, m.cfg.UI.MarkdownStyle).SetSize(m.width, m.height)
	m.showHelp = true
	return m
}

func (m *Model) showToast(message string, style toaster.Style) tea.Cmd {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(message, style, toaster.DefaultDuration)
	return cmd
}

// reloadTheme re-reads the config and applies its theme colors.
func (m *Model) reloadTheme() tea.Cmd {
	cfg, err := m.reload()
	if err != nil {
		log.ErrorErr(log.CatConfig, "Config reload failed", err)
		return m.showToast("Config reload failed", toaster.StyleWarn)
	}
	if err := styles.ApplyTheme(ThemeFromConfig(cfg.Theme)); err != nil {
		log.ErrorErr(log.CatConfig, "Invalid theme", err)
		return m.showToast(err.Error(), toaster.StyleError)
	}
	m.cfg.Theme = cfg.Theme
	log.Info(log.CatConfig, "Theme reloaded")
	return m.showToast("Theme reloaded", toaster.StyleInfo)
}

// ThemeFromConfig converts the config theme section for the styles package.
func ThemeFromConfig(t config.ThemeConfig) styles.Theme {
	return styles.Theme{
		Accent:  t.Accent,
		Muted:   t.Muted,
		Error:   t.Error,
		Success: t.Success,
	}
}

func errorText(err error) string {
	var statusErr *auth.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	return "Check api.base_url and try again."
}

// View implements tea.Model.
func (m Model) View() string {
	var view string
	switch m.current {
	case ViewRegister:
		view = m.register.View()
	default:
		view = m.dashboard.View()
	}

	if m.showHelp {
		view = m.help.Overlay(view)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.register = m.register.Close()
	m.cancel()

	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
