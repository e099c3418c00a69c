package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lexis/internal/api"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/validate"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true).
			Width(18)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Italic(true).
			PaddingLeft(18)
)

// Authenticator signs users in and up.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (lexis.Session, error)
	SignUp(ctx context.Context, req api.SignUpRequest) error
}

type formMode int

const (
	modeSignIn formMode = iota
	modeSignUp
)

// formField is one input of the account forms, keyed by its json name.
type formField struct {
	key   string
	label string
	input textinput.Model
}

type authResultMsg struct {
	session lexis.Session
	err     error
}

// AccountModel signs the user in, up and out.
type AccountModel struct {
	auth    Authenticator
	session lexis.Session

	mode    formMode
	fields  []formField
	focus   int
	editing bool

	errs    validate.Errors
	err     error
	loading bool
	spinner spinner.Model

	width  int
	height int
}

// NewAccountModel creates a new account view model.
func NewAccountModel(auth Authenticator, sess lexis.Session) AccountModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	m := AccountModel{
		auth:    auth,
		session: sess,
		spinner: sp,
	}
	m.setMode(modeSignIn)
	return m
}

func newField(key, label string, secret bool) formField {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 32
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return formField{key: key, label: label, input: ti}
}

func (m *AccountModel) setMode(mode formMode) {
	m.mode = mode
	m.focus = 0
	m.errs = nil
	m.err = nil

	email := ""
	for _, f := range m.fields {
		if f.key == "email" {
			email = f.input.Value()
		}
	}

	if mode == modeSignUp {
		m.fields = []formField{
			newField("first_name", "First name", false),
			newField("last_name", "Last name", false),
			newField("email", "Email", false),
			newField("password", "Password", true),
			newField("confirm_password", "Confirm password", true),
		}
	} else {
		m.fields = []formField{
			newField("email", "Email", false),
			newField("password", "Password", true),
		}
	}
	for i := range m.fields {
		if m.fields[i].key == "email" {
			m.fields[i].input.SetValue(email)
		}
	}
	m.focusField()
}

func (m *AccountModel) focusField() {
	for i := range m.fields {
		m.fields[i].input.Blur()
	}
	if m.editing {
		m.fields[m.focus].input.Focus()
	}
}

// SetSession updates the session shown.
func (m *AccountModel) SetSession(sess lexis.Session) {
	m.session = sess
	m.loading = false
	m.editing = false
	if !sess.SignedIn() {
		m.setMode(modeSignIn)
	}
}

// SetSize updates the view dimensions.
func (m *AccountModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Capturing reports whether keys should go to a form input.
func (m AccountModel) Capturing() bool {
	return m.editing
}

func (m AccountModel) value(key string) string {
	for _, f := range m.fields {
		if f.key == key {
			return f.input.Value()
		}
	}
	return ""
}

// submit validates the form and starts the request.
func (m *AccountModel) submit() tea.Cmd {
	m.err = nil
	m.errs = nil

	var err error
	if m.mode == modeSignUp {
		err = validate.NewSignUp().Validate(validate.SignUpForm{
			FirstName:       m.value("first_name"),
			LastName:        m.value("last_name"),
			Email:           m.value("email"),
			Password:        m.value("password"),
			ConfirmPassword: m.value("confirm_password"),
		})
	} else {
		err = validate.NewSignIn().Validate(validate.SignInForm{
			Email:    m.value("email"),
			Password: m.value("password"),
		})
	}
	var verrs validate.Errors
	if errors.As(err, &verrs) {
		m.errs = verrs
		return nil
	}
	if err != nil {
		m.err = err
		return nil
	}

	auth := m.auth
	email := strings.TrimSpace(m.value("email"))
	password := m.value("password")
	var signUp *api.SignUpRequest
	if m.mode == modeSignUp {
		signUp = &api.SignUpRequest{
			FirstName:       strings.TrimSpace(m.value("first_name")),
			LastName:        strings.TrimSpace(m.value("last_name")),
			Email:           email,
			Password:        password,
			ConfirmPassword: m.value("confirm_password"),
		}
	}

	m.loading = true
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		if signUp != nil {
			if err := auth.SignUp(ctx, *signUp); err != nil {
				return authResultMsg{err: err}
			}
		}
		sess, err := auth.SignIn(ctx, email, password)
		return authResultMsg{session: sess, err: err}
	})
}

// Update handles messages.
func (m AccountModel) Update(msg tea.Msg) (AccountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case authResultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.editing = false
		m.focusField()
		return m, emit(SignedInMsg{Session: msg.session})

	case tea.KeyMsg:
		if m.session.SignedIn() {
			if msg.String() == "o" {
				return m, emit(SignOutMsg{})
			}
			return m, nil
		}
		if m.loading {
			return m, nil
		}
		if !m.editing {
			switch msg.String() {
			case "enter", "i":
				m.editing = true
				m.focusField()
				return m, textinput.Blink
			case "m":
				m.setMode(1 - m.mode)
				return m, nil
			}
			return m, nil
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m AccountModel) updateForm(msg tea.KeyMsg) (AccountModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.focusField()
		return m, nil
	case "ctrl+t":
		m.setMode(1 - m.mode)
		return m, textinput.Blink
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.fields)
		m.focusField()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + len(m.fields) - 1) % len(m.fields)
		m.focusField()
		return m, nil
	case "enter":
		if m.focus < len(m.fields)-1 {
			m.focus++
			m.focusField()
			return m, nil
		}
		cmd := m.submit()
		return m, cmd
	}

	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

// View renders the account view.
func (m AccountModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Account"))
	b.WriteString("\n\n")

	if m.session.SignedIn() {
		b.WriteString(fieldLabelStyle.Render("Signed in as") + valueStyle.Render(m.session.Email))
		b.WriteString("\n")
		b.WriteString(fieldLabelStyle.Render("User ID") + mutedStyle.Render(m.session.UserID))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("o: sign out"))
		return b.String()
	}

	heading := "Sign in"
	if m.mode == modeSignUp {
		heading = "Create an account"
	}
	b.WriteString(subtitleStyle.Bold(true).Render(heading))
	b.WriteString("\n\n")

	for _, f := range m.fields {
		b.WriteString(fieldLabelStyle.Render(f.label) + f.input.View())
		b.WriteString("\n")
		if msg, ok := m.errs[f.key]; ok {
			b.WriteString(fieldErrorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	if m.loading {
		b.WriteString("\n" + m.spinner.View() + loadingStyle.Render(" Contacting server..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(wordWrap(m.err.Error(), max(20, m.width-4))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.editing && m.mode == modeSignUp:
		b.WriteString(helpStyle.Render("enter: next/submit • tab: next field • ctrl+t: sign in instead • esc: done"))
	case m.editing:
		b.WriteString(helpStyle.Render("enter: next/submit • tab: next field • ctrl+t: sign up instead • esc: done"))
	default:
		b.WriteString(helpStyle.Render("enter: fill in the form • m: switch sign in/sign up"))
	}
	return b.String()
}
