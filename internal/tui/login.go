package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"github.com/redjax/notedash/internal/services"
)

// Authenticator is the slice of the Note Service the auth views need.
type Authenticator interface {
	Login(ctx context.Context, creds services.Credentials) (string, error)
	CreateAccount(ctx context.Context, signup services.Signup) (*services.SignupResult, error)
}

// SessionWriter persists a successful login.
type SessionWriter interface {
	Set(token, email string) error
}

// LoggedInMsg is sent once a session token has been stored.
type LoggedInMsg struct {
	Notice string
}

type ShowSignupMsg struct{}

// ShowLoginMsg returns to the login view, optionally prefilled.
type ShowLoginMsg struct {
	Email  string
	Notice string
}

type authResultMsg struct {
	token  string
	email  string
	notice string
	err    error
}

var formValidator = validator.New()

// formError turns a validator failure into a one-line message.
func formError(v interface{}) string {
	err := formValidator.Struct(v)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Email":
		if fe.Tag() == "required" {
			return "Please enter your email address"
		}
		return "Please enter a valid email address"
	case "Password":
		if fe.Tag() == "min" {
			return "Password must be at least " + fe.Param() + " characters"
		}
		return "Please enter the password"
	case "FullName":
		if fe.Tag() == "max" {
			return "Name is too long"
		}
		return "Please enter your name"
	}
	return fe.Error()
}

// authFailure maps service errors onto what the form shows.
func authFailure(err error) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if services.IsUnauthorized(err) {
		return "Invalid email or password"
	}
	return "An unexpected error occurred. Please try again."
}

type authForm struct {
	inputs []textinput.Model
	focus  int
	err    string
	busy   bool
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 100
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

func (f *authForm) setFocus(i int) {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *authForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// update handles focus movement and reports whether enter was pressed on
// the last field.
func (f *authForm) update(msg tea.Msg) (bool, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return false, textinput.Blink
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return false, textinput.Blink
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return true, nil
			}
			f.setFocus(f.focus + 1)
			return false, textinput.Blink
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

func (f authForm) view(labels []string) string {
	s := ""
	for i, in := range f.inputs {
		s += editorLabelStyle.Render(labels[i]) + "\n" + in.View() + "\n\n"
	}
	if f.err != "" {
		s += errorTextStyle.Render(f.err) + "\n\n"
	}
	if f.busy {
		s += mutedStyle.Render("Please wait...") + "\n\n"
	}
	return s
}

// LoginModel collects credentials and stores the resulting session.
type LoginModel struct {
	auth    Authenticator
	session SessionWriter
	form    authForm
	notice  string
	width   int
	height  int
}

func NewLogin(auth Authenticator, session SessionWriter, email, notice string) LoginModel {
	emailInput := newInput("Email", false)
	emailInput.SetValue(email)

	m := LoginModel{
		auth:    auth,
		session: session,
		form: authForm{inputs: []textinput.Model{
			emailInput,
			newInput("Password", true),
		}},
		notice: notice,
	}
	if email != "" {
		m.form.setFocus(1)
	} else {
		m.form.setFocus(0)
	}
	return m
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authResultMsg:
		m.form.busy = false
		if msg.err != nil {
			m.form.err = authFailure(msg.err)
			return m, nil
		}
		if err := m.session.Set(msg.token, msg.email); err != nil {
			m.form.err = "Could not save session: " + err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return LoggedInMsg{Notice: "Login successful!"} }

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+n":
			return m, func() tea.Msg { return ShowSignupMsg{} }
		}
		if m.form.busy {
			return m, nil
		}
	}

	submit, cmd := m.form.update(msg)
	if !submit {
		return m, cmd
	}

	creds := services.Credentials{Email: m.form.value(0), Password: m.form.inputs[1].Value()}
	if m.form.err = formError(creds); m.form.err != "" {
		return m, nil
	}

	m.form.busy = true
	auth := m.auth
	return m, func() tea.Msg {
		token, err := auth.Login(context.Background(), creds)
		return authResultMsg{token: token, email: creds.Email, err: err}
	}
}

func (m LoginModel) View() string {
	s := titleStyle.Render("📝 Notes · Login") + "\n"
	if m.notice != "" {
		s += mutedStyle.Render(m.notice) + "\n\n"
	}
	s += m.form.view([]string{"EMAIL", "PASSWORD"})
	s += helpStyle.Render("tab: next field • enter: login • ctrl+n: create an account • esc: quit")
	return modalStyle.Render(s)
}
