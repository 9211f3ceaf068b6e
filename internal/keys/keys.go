// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// FormKeyMap defines the keybindings for the registration form. Text
// inputs consume printable keys, so every action uses a control key.
type FormKeyMap struct {
	// Navigation
	Next  key.Binding
	Prev  key.Binding
	Left  key.Binding
	Right key.Binding

	// Actions
	Toggle         key.Binding
	Submit         key.Binding
	SubmitAnywhere key.Binding
	TogglePassword key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next option"),
		),

		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "select option"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next / create account"),
		),
		SubmitAnywhere: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "create account"),
		),
		TogglePassword: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "show/hide password"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the footer.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.SubmitAnywhere, k.TogglePassword, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Left, k.Right},                      // Navigation
		{k.Toggle, k.Submit, k.SubmitAnywhere, k.TogglePassword}, // Actions
		{k.Help, k.Quit},                                         // General
	}
}

// DashboardKeyMap defines the keybindings for the dashboard.
type DashboardKeyMap struct {
	Logout key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultDashboardKeyMap returns the default dashboard keybindings.
func DefaultDashboardKeyMap() DashboardKeyMap {
	return DashboardKeyMap{
		Logout: key.NewBinding(
			key.WithKeys("L", "ctrl+l"),
			key.WithHelp("L", "logout"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the footer.
func (k DashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Logout, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k DashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Logout},
		{k.Help, k.Quit},
	}
}

// Overlay closes the help overlay.
var Overlay = struct {
	Close key.Binding
}{
	Close: key.NewBinding(
		key.WithKeys("esc", "?", "f1", "q"),
		key.WithHelp("esc", "close"),
	),
}
