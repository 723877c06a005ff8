package commands

import (
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/services"
	"github.com/redjax/notedash/internal/session"
	"github.com/redjax/notedash/internal/tui"
)

var errNotLoggedIn = errors.New("not logged in (run 'nd login' first)")

// openClient opens the stored session and builds a Note Service client
// that authenticates with it.
func openClient(cfg *config.Config) (*services.NotesService, *session.Session, error) {
	if err := cfg.EnsureDataDirs(); err != nil {
		return nil, nil, err
	}

	sess, err := session.Open(cfg.SessionFile)
	if err != nil {
		return nil, nil, err
	}

	return services.NewNotesService(cfg.APIURL, cfg.APITimeout, sess), sess, nil
}

// openAuthenticated is openClient for commands that need a login.
func openAuthenticated(cfg *config.Config) (*services.NotesService, *session.Session, error) {
	svc, sess, err := openClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	if !sess.Authenticated() {
		return nil, nil, errNotLoggedIn
	}
	return svc, sess, nil
}

// sessionError clears a rejected session so the next run starts logged out.
func sessionError(sess *session.Session, err error) error {
	if !services.IsUnauthorized(err) {
		return err
	}
	if clearErr := sess.Clear(); clearErr != nil {
		log.Printf("failed to clear session: %v", clearErr)
	}
	return fmt.Errorf("session expired, run 'nd login' again: %w", err)
}

// runTUI starts the full-screen app. Logs go to cfg.LogFile while it runs.
func runTUI(cfg *config.Config, query string) error {
	svc, sess, err := openClient(cfg)
	if err != nil {
		return err
	}

	f, err := tea.LogToFile(cfg.LogFile, "nd")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	log.Printf("starting TUI against %s", svc.BaseURL())

	p := tea.NewProgram(tui.NewSearchApp(svc, sess, query), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
