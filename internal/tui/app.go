package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/redjax/notedash/internal/controller"
	"github.com/redjax/notedash/internal/services"
	"github.com/redjax/notedash/internal/session"
)

// AppModel routes between the login, signup and home views.
type AppModel struct {
	currentView tea.Model
	svc         *services.NotesService
	session     *session.Session
	toasts      *Toasts
	query       string
	width       int
	height      int
}

// NewAppModel starts at the home view when a session exists and at the
// login view otherwise.
func NewAppModel(svc *services.NotesService, sess *session.Session) AppModel {
	return NewSearchApp(svc, sess, "")
}

// NewSearchApp is NewAppModel with a search query applied once the home
// view has loaded.
func NewSearchApp(svc *services.NotesService, sess *session.Session, query string) AppModel {
	m := AppModel{
		svc:     svc,
		session: sess,
		toasts:  NewToasts(),
		query:   query,
	}

	if sess.Authenticated() {
		m.currentView = m.newHome()
		m.query = ""
	} else {
		m.currentView = NewLogin(svc, sess, sess.Email(), "")
	}
	return m
}

func (m AppModel) newHome() HomeModel {
	return NewHome(m.svc, m.session, m.toasts, m.width, m.height, m.query)
}

func (m AppModel) Init() tea.Cmd {
	return m.currentView.Init()
}

// switchTo replaces the current view and replays the window size to it.
func (m AppModel) switchTo(view tea.Model) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.currentView = view
	if m.width > 0 && m.height > 0 {
		m.currentView, cmd = m.currentView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	return m, tea.Batch(cmd, m.currentView.Init())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}

	switch msg := msg.(type) {
	case LoggedInMsg:
		if msg.Notice != "" {
			m.toasts.Notify(controller.VariantSuccess, msg.Notice)
		}
		home := m.newHome()
		m.query = ""
		return m.switchTo(home)

	case RedirectToLoginMsg:
		return m.switchTo(NewLogin(m.svc, m.session, m.session.Email(), "Please log in to continue."))

	case ShowLoginMsg:
		return m.switchTo(NewLogin(m.svc, m.session, msg.Email, msg.Notice))

	case ShowSignupMsg:
		return m.switchTo(NewSignup(m.svc, m.session))
	}

	var cmd tea.Cmd
	m.currentView, cmd = m.currentView.Update(msg)
	return m, cmd
}

func (m AppModel) View() string {
	return m.currentView.View()
}
