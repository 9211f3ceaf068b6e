// Package register implements the account registration form: text inputs
// for the identity and password fields, a gender radio group, a hobby
// checklist and a country select, with client-side validation that
// re-runs on a debounce while errors are shown.
package register

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/regdash/internal/auth"
	"github.com/zjrosen/regdash/internal/keys"
	"github.com/zjrosen/regdash/internal/log"
	"github.com/zjrosen/regdash/internal/registration"
)

// Submitter sends a registration. *auth.Session satisfies it.
type Submitter interface {
	Register(ctx context.Context, payload registration.Payload) (*registration.FieldErrors, error)
}

// DefaultDebounce is the revalidation delay used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Config holds form options.
type Config struct {
	Debounce time.Duration
}

// SubmittedMsg carries the outcome of a register call back to the form.
type SubmittedMsg struct {
	Errors *registration.FieldErrors
	Err    error
}

// revalidateMsg fires when a debounce timer expires. Only the timer whose
// seq matches the latest change is honored.
type revalidateMsg struct {
	seq int
}

// Zone IDs for mouse support.
const (
	zoneSubmit        = "register-submit"
	zoneFieldPrefix   = "register-field-"
	zoneGenderPrefix  = "register-gender-"
	zoneHobbyPrefix   = "register-hobby-"
	zoneCountryPrev   = "register-country-prev"
	zoneCountryNext   = "register-country-next"
	textFieldCount    = 5
	submitFocus       = 8
	focusTargetsCount = submitFocus + 1
)

// Model is the registration form state.
type Model struct {
	submitter Submitter
	keys      keys.FormKeyMap
	debounce  time.Duration

	form         registration.FormState
	inputs       [textFieldCount]textinput.Model // name, username, email, password, confirm
	clientErrors registration.Errors
	serverErrors *registration.FieldErrors
	loading      bool
	showPassword bool

	// focus indexes registration.Fields; submitFocus is the button.
	focus         int
	genderCursor  int
	hobbyCursor   int
	countryCursor int

	revalidateSeq int
	closed        bool

	width  int
	height int
}

// New creates an empty form with focus on the name field.
func New(submitter Submitter, cfg Config) Model {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	placeholders := [textFieldCount]string{
		"John Doe",
		"johndoe",
		"your.email@example.com",
		"••••••••",
		"••••••••",
	}

	m := Model{
		submitter:    submitter,
		keys:         keys.DefaultFormKeyMap(),
		debounce:     debounce,
		clientErrors: registration.Errors{},
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 255
		m.inputs[i] = ti
	}
	m.applyEchoMode()
	m.inputs[0].Focus()
	return m
}

// SetSize sets the available screen area.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Form returns the current input.
func (m Model) Form() registration.FormState {
	return m.form
}

// ClientErrors returns the messages from the latest validation pass.
func (m Model) ClientErrors() registration.Errors {
	return m.clientErrors
}

// ServerErrors returns the field errors from the latest register call.
func (m Model) ServerErrors() *registration.FieldErrors {
	return m.serverErrors
}

// Loading reports whether a register call is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// ShowPassword reports whether password inputs echo their contents.
func (m Model) ShowPassword() bool {
	return m.showPassword
}

// Focused returns the focused field, or "" when the submit button has focus.
func (m Model) Focused() registration.Field {
	if m.focus == submitFocus {
		return ""
	}
	return registration.Fields[m.focus]
}

// Close invalidates any pending revalidation. The form ignores debounce
// ticks from then on.
func (m Model) Close() Model {
	m.closed = true
	m.revalidateSeq++
	return m
}

// Init returns the cursor blink command for the focused input.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case revalidateMsg:
		if m.closed || msg.seq != m.revalidateSeq {
			return m, nil
		}
		m.clientErrors = registration.Validate(m.form)
		log.Debug(log.CatForm, "Revalidated form", "errors", len(m.clientErrors))
		return m, nil

	case SubmittedMsg:
		m.loading = false
		switch {
		case msg.Err != nil:
			log.ErrorErr(log.CatForm, "Registration failed", msg.Err)
			m.serverErrors = auth.FieldErrorsFromError(msg.Err)
		case !msg.Errors.Empty():
			log.Info(log.CatForm, "Registration rejected", "fields", msg.Errors.Len())
			m.serverErrors = msg.Errors
		default:
			log.Info(log.CatForm, "Registration accepted")
			m.serverErrors = nil
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			return m.handleClick(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and other input housekeeping.
	if m.focus < textFieldCount {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SubmitAnywhere):
		return m.submit()

	case key.Matches(msg, m.keys.TogglePassword):
		m.showPassword = !m.showPassword
		m.applyEchoMode()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % focusTargetsCount)

	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + focusTargetsCount - 1) % focusTargetsCount)

	case key.Matches(msg, m.keys.Submit):
		if m.focus == submitFocus {
			return m.submit()
		}
		return m, m.setFocus(m.focus + 1)
	}

	if m.focus < textFieldCount {
		before := m.inputs[m.focus].Value()
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		if m.inputs[m.focus].Value() == before {
			return m, cmd
		}
		m.syncText(m.focus)
		return m, tea.Batch(cmd, m.changed())
	}

	if m.focus == submitFocus {
		if key.Matches(msg, m.keys.Toggle) {
			return m.submit()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch registration.Fields[m.focus] {
	case registration.FieldGender:
		cmd = m.handleOptionKey(msg, &m.genderCursor, len(registration.Genders), m.selectGender)
	case registration.FieldHobbies:
		cmd = m.handleOptionKey(msg, &m.hobbyCursor, len(registration.Hobbies), m.toggleHobby)
	case registration.FieldCountry:
		cmd = m.handleOptionKey(msg, &m.countryCursor, len(registration.Countries), m.selectCountry)
	}
	return m, cmd
}

// handleOptionKey moves an option cursor with left/right and applies
// choose to the cursor position on toggle.
func (m *Model) handleOptionKey(msg tea.KeyMsg, cursor *int, n int, choose func(int) tea.Cmd) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Left):
		if *cursor > 0 {
			*cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if *cursor < n-1 {
			*cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		return choose(*cursor)
	}
	return nil
}

func (m *Model) selectGender(i int) tea.Cmd {
	g := registration.Genders[i]
	if m.form.Gender == g {
		return nil
	}
	m.form.Gender = g
	return m.changed()
}

func (m *Model) toggleHobby(i int) tea.Cmd {
	m.form.ToggleHobby(registration.Hobbies[i])
	return m.changed()
}

func (m *Model) selectCountry(i int) tea.Cmd {
	c := registration.Countries[i]
	if m.form.Country == c {
		return nil
	}
	m.form.Country = c
	return m.changed()
}

// changed records an edit. While client errors are shown it schedules a
// revalidation; any earlier timer becomes stale.
func (m *Model) changed() tea.Cmd {
	m.revalidateSeq++
	if m.clientErrors.Empty() {
		return nil
	}
	seq := m.revalidateSeq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return revalidateMsg{seq: seq}
	})
}

// submit validates and, when every rule passes, starts the register call.
func (m Model) submit() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}

	m.revalidateSeq++
	m.clientErrors = registration.Validate(m.form)
	if !m.clientErrors.Empty() {
		log.Debug(log.CatForm, "Submit blocked by validation", "errors", len(m.clientErrors))
		return m, nil
	}

	m.loading = true
	m.serverErrors = nil
	payload := m.form.Payload()
	submitter := m.submitter
	log.Info(log.CatForm, "Submitting registration", "username", payload.Username, "email", payload.Email)

	return m, func() tea.Msg {
		errs, err := submitter.Register(context.Background(), payload)
		return SubmittedMsg{Errors: errs, Err: err}
	}
}

// setFocus moves focus to index i, blurring the previous text input.
func (m *Model) setFocus(i int) tea.Cmd {
	if m.focus < textFieldCount {
		m.inputs[m.focus].Blur()
	}
	m.focus = i
	if i < textFieldCount {
		return m.inputs[i].Focus()
	}
	return nil
}

func (m *Model) syncText(i int) {
	v := m.inputs[i].Value()
	switch registration.Fields[i] {
	case registration.FieldName:
		m.form.Name = v
	case registration.FieldUsername:
		m.form.Username = v
	case registration.FieldEmail:
		m.form.Email = v
	case registration.FieldPassword:
		m.form.Password = v
	case registration.FieldConfirmPassword:
		m.form.ConfirmPassword = v
	}
}

func (m *Model) applyEchoMode() {
	for _, f := range []registration.Field{registration.FieldPassword, registration.FieldConfirmPassword} {
		i := fieldIndex(f)
		if m.showPassword {
			m.inputs[i].EchoMode = textinput.EchoNormal
		} else {
			m.inputs[i].EchoMode = textinput.EchoPassword
			m.inputs[i].EchoCharacter = '•'
		}
	}
}

// handleClick maps a left click to a control through the zones marked in View.
func (m Model) handleClick(msg tea.MouseMsg) (Model, tea.Cmd) {
	if z := zone.Get(zoneSubmit); z != nil && z.InBounds(msg) {
		focusCmd := m.setFocus(submitFocus)
		var submitCmd tea.Cmd
		m, submitCmd = m.submit()
		return m, tea.Batch(focusCmd, submitCmd)
	}

	for i, g := range registration.Genders {
		if z := zone.Get(zoneGenderPrefix + string(g)); z != nil && z.InBounds(msg) {
			focusCmd := m.setFocus(fieldIndex(registration.FieldGender))
			m.genderCursor = i
			return m, tea.Batch(focusCmd, m.selectGender(i))
		}
	}

	for i, h := range registration.Hobbies {
		if z := zone.Get(zoneHobbyPrefix + h); z != nil && z.InBounds(msg) {
			focusCmd := m.setFocus(fieldIndex(registration.FieldHobbies))
			m.hobbyCursor = i
			return m, tea.Batch(focusCmd, m.toggleHobby(i))
		}
	}

	if z := zone.Get(zoneCountryPrev); z != nil && z.InBounds(msg) {
		m.countryCursor = max(m.countryCursor-1, 0)
		return m, nil
	}
	if z := zone.Get(zoneCountryNext); z != nil && z.InBounds(msg) {
		m.countryCursor = min(m.countryCursor+1, len(registration.Countries)-1)
		return m, nil
	}

	for i, f := range registration.Fields {
		if z := zone.Get(zoneFieldPrefix + string(f)); z != nil && z.InBounds(msg) {
			return m, m.setFocus(i)
		}
	}
	return m, nil
}

func fieldIndex(f registration.Field) int {
	for i, candidate := range registration.Fields {
		if candidate == f {
			return i
		}
	}
	return -1
}
