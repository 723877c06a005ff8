package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/redjax/notedash/internal/services"
)

// SignupModel registers an account and logs straight in.
type SignupModel struct {
	auth    Authenticator
	session SessionWriter
	form    authForm
	width   int
	height  int
}

func NewSignup(auth Authenticator, session SessionWriter) SignupModel {
	m := SignupModel{
		auth:    auth,
		session: session,
		form: authForm{inputs: []textinput.Model{
			newInput("Full name", false),
			newInput("Email", false),
			newInput("Password (8+ characters)", true),
		}},
	}
	m.form.setFocus(0)
	return m
}

func (m SignupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SignupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		if msg.token == "" {
			return m, func() tea.Msg { return ShowLoginMsg{Email: msg.email, Notice: msg.notice} }
		}
		if err := m.session.Set(msg.token, msg.email); err != nil {
			m.form.err = "Could not save session: " + err.Error()
			return m, nil
		}
		notice := "Account created!"
		if msg.notice != "" {
			notice = msg.notice
		}
		return m, func() tea.Msg { return LoggedInMsg{Notice: notice} }

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "ctrl+l":
			return m, func() tea.Msg { return ShowLoginMsg{} }
		}
		if m.form.busy {
			return m, nil
		}
	}

	submit, cmd := m.form.update(msg)
	if !submit {
		return m, cmd
	}

	signup := services.Signup{
		FullName: m.form.value(0),
		Email:    m.form.value(1),
		Password: m.form.inputs[2].Value(),
	}
	if m.form.err = formError(signup); m.form.err != "" {
		return m, nil
	}

	m.form.busy = true
	auth := m.auth
	return m, func() tea.Msg {
		res, err := auth.CreateAccount(context.Background(), signup)
		if err != nil {
			return authResultMsg{err: err}
		}
		return authResultMsg{token: res.AccessToken, email: signup.Email, notice: res.Message}
	}
}

func (m SignupModel) View() string {
	s := titleStyle.Render("📝 Notes · Create Account") + "\n"
	s += m.form.view([]string{"FULL NAME", "EMAIL", "PASSWORD"})
	s += helpStyle.Render("tab: next field • enter: sign up • esc: back to login")
	return modalStyle.Render(s)
}
