// Package toaster provides a notification toast overlay component.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/regdash/internal/ui/overlay"
	"github.com/zjrosen/regdash/internal/ui/styles"
)

// Style determines the visual appearance of the toast.
type Style int

const (
	// StyleSuccess shows ✅ with green border.
	StyleSuccess Style = iota
	// StyleError shows ❌ with red border.
	StyleError
	// StyleInfo shows ℹ️ with accent border.
	StyleInfo
	// StyleWarn shows ⚠️ with yellow border.
	StyleWarn
)

// DefaultDuration is how long Show keeps a toast on screen.
const DefaultDuration = 3 * time.Second

// Model holds the toaster state. Each Show bumps id so a dismissal
// scheduled for an older toast leaves a newer one alone.
type Model struct {
	message string
	style   Style
	visible bool
	id      int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays a toast and returns the command that dismisses it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.id++
	m.message = message
	m.style = style
	m.visible = true

	id := m.id
	return m, tea.Tick(d, func(time.Time) tea.Msg { return DismissMsg{ID: id} })
}

// Update handles DismissMsg.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.ID == m.id {
		m.visible = false
		m.message = ""
	}
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// maxMessageWidth caps the toast text; longer messages wrap.
const maxMessageWidth = 56

// View renders the toast box.
func (m Model) View() string {
	return m.render(maxMessageWidth)
}

// render draws the toast with its text wrapped to width cells.
func (m Model) render(width int) string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var icon string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.ToastBorderErrorColor)
		icon = "❌ "
	case StyleInfo:
		style = style.BorderForeground(styles.ToastBorderInfoColor)
		icon = "ℹ️ "
	case StyleWarn:
		style = style.BorderForeground(styles.ToastBorderWarnColor)
		icon = "⚠️ "
	default:
		style = style.BorderForeground(styles.ToastBorderSuccessColor)
		icon = "✅ "
	}
	return style.Render(wordwrap.String(icon+m.message, max(width, 10)))
}

// Overlay renders the toast near the bottom of bg.
func (m Model) Overlay(bg string, width, height int) string {
	// Border and padding take four columns.
	fg := m.render(min(maxMessageWidth, width-4))
	if fg == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, fg, bg)
}

// DismissMsg hides the toast with the matching ID.
type DismissMsg struct {
	ID int
}
