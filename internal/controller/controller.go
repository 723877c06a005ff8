// Package controller holds the view state of the notes home page and
// mediates between the remote Note Service and whatever renders it.
//
// Every operation catches its own failures: unauthorized responses clear
// the session and request a single login redirect, read failures are
// logged and leave the previous state displayed, and mutation failures are
// logged (delete failures are also shown to the user). The returned errors
// are informational; callers may ignore them.
package controller

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/redjax/notedash/internal/services"
	"golang.org/x/sync/errgroup"
)

// Mode selects which note sequence is rendered.
type Mode int

const (
	Listing Mode = iota
	Searching
)

func (m Mode) String() string {
	if m == Searching {
		return "searching"
	}
	return "listing"
}

// EmptyState tells the renderer which empty indicator, if any, to show.
type EmptyState int

const (
	EmptyNone EmptyState = iota
	EmptyNoMatch
	EmptyNoNotes
)

// NoteService is the subset of the remote API the controller uses.
type NoteService interface {
	GetUser(ctx context.Context) (*services.User, error)
	GetAllNotes(ctx context.Context) ([]services.Note, error)
	SearchNotes(ctx context.Context, query string) ([]services.Note, error)
	AddNote(ctx context.Context, draft services.NoteDraft) (*services.Note, error)
	UpdateNote(ctx context.Context, note services.Note) (*services.Note, error)
	DeleteNote(ctx context.Context, id string) error
}

// Session is the shell-owned login state. Clear is the only mutation the
// controller performs on it.
type Session interface {
	Clear() error
}

// Navigator receives the request to leave the home view for the login
// entry point.
type Navigator interface {
	RedirectToLogin()
}

// Variant is the severity of a user-facing notification.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
)

// Notifier shows short user-facing notifications.
type Notifier interface {
	Notify(variant Variant, message string)
}

// View is an immutable snapshot for rendering.
type View struct {
	Notes           []services.Note
	Mode            Mode
	Query           string
	PendingDeletion *services.Note
	Editor          Editor
	User            *services.User
	Loaded          bool
	Empty           EmptyState
}

// Controller owns the home page view state. It is safe for concurrent use;
// no lock is held across a network call.
type Controller struct {
	svc     NoteService
	session Session
	nav     Navigator
	notify  Notifier

	mu            sync.Mutex
	notes         []services.Note
	searchResults []services.Note
	mode          Mode
	query         string
	pending       *services.Note
	editor        Editor
	user          *services.User
	loaded        bool
	redirected    bool

	// Read tickets. A read result is applied only if nothing issued after
	// it has been applied to the same sequence.
	tickets      uint64
	notesApplied uint64
	searchFloor  uint64
}

func New(svc NoteService, session Session, nav Navigator, notify Notifier) *Controller {
	if notify == nil {
		notify = discardNotifier{}
	}
	return &Controller{
		svc:     svc,
		session: session,
		nav:     nav,
		notify:  notify,
		editor:  Editor{Mode: EditorAdd},
	}
}

// Snapshot returns the current view state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Mode:   c.mode,
		Query:  c.query,
		Editor: c.editor.clone(),
		Loaded: c.loaded,
	}

	if c.mode == Searching {
		v.Notes = cloneNotes(c.searchResults)
		if len(v.Notes) == 0 {
			v.Empty = EmptyNoMatch
		}
	} else {
		v.Notes = cloneNotes(c.notes)
		if len(v.Notes) == 0 && c.loaded {
			v.Empty = EmptyNoNotes
		}
	}

	if c.pending != nil {
		p := cloneNote(*c.pending)
		v.PendingDeletion = &p
	}
	if c.user != nil {
		u := *c.user
		v.User = &u
	}
	return v
}

// FetchAll reloads every note and the user profile.
func (c *Controller) FetchAll(ctx context.Context) error {
	ticket := c.nextTicket()

	var (
		notes    []services.Note
		user     *services.User
		notesErr error
		userErr  error
	)

	var g errgroup.Group
	g.Go(func() error {
		notes, notesErr = c.svc.GetAllNotes(ctx)
		return notesErr
	})
	g.Go(func() error {
		user, userErr = c.svc.GetUser(ctx)
		return userErr
	})
	err := g.Wait()

	c.mu.Lock()
	if notesErr == nil && ticket > c.notesApplied {
		c.notesApplied = ticket
		c.notes = cloneNotes(notes)
		c.loaded = true
		// Hits from a search issued after this fetch are already newer.
		if c.mode == Searching && ticket > c.searchFloor {
			c.searchResults = refreshResults(c.searchResults, c.notes)
		}
	}
	if userErr == nil && user != nil {
		u := *user
		c.user = &u
	}
	c.mu.Unlock()

	if notesErr != nil {
		c.handleError("fetch notes", notesErr)
	}
	if userErr != nil {
		c.handleError("fetch user", userErr)
	}
	return err
}

// Search replaces the search results with the notes matching query and
// switches to Searching. Blank queries are ignored.
func (c *Controller) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	ticket := c.nextTicket()
	results, err := c.svc.SearchNotes(ctx, query)
	if err != nil {
		c.handleError("search notes", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket > c.searchFloor {
		c.searchFloor = ticket
		c.mode = Searching
		c.query = query
		c.searchResults = cloneNotes(results)
		if c.searchResults == nil {
			c.searchResults = []services.Note{}
		}
	}
	return nil
}

// ClearSearch returns to Listing and refetches. Searches still in flight
// are discarded when they complete.
func (c *Controller) ClearSearch(ctx context.Context) error {
	c.mu.Lock()
	c.mode = Listing
	c.query = ""
	c.searchResults = nil
	c.tickets++
	c.searchFloor = c.tickets
	c.mu.Unlock()

	return c.FetchAll(ctx)
}

// ToggleFavorite sends the note back with IsFavorite inverted and every
// other field preserved, then refetches. The flag is never flipped locally.
func (c *Controller) ToggleFavorite(ctx context.Context, note services.Note) error {
	updated := cloneNote(note)
	updated.IsFavorite = !note.IsFavorite

	if _, err := c.svc.UpdateNote(ctx, updated); err != nil {
		c.handleError("update favorite status", err)
		return err
	}
	return c.afterMutation(ctx)
}

// Logout clears the session and requests the login view.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.redirected = true
	c.mu.Unlock()

	if err := c.session.Clear(); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	c.nav.RedirectToLogin()
}

// afterMutation is the single place a successful mutation resyncs the view.
func (c *Controller) afterMutation(ctx context.Context) error {
	return c.FetchAll(ctx)
}

func (c *Controller) nextTicket() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickets++
	return c.tickets
}

// handleError routes a failed call: unauthorized expires the session,
// anything else is logged for operators.
func (c *Controller) handleError(op string, err error) {
	if services.IsUnauthorized(err) {
		c.expire()
		return
	}
	log.Printf("Failed to %s: %v", op, err)
}

// expire handles an unauthorized response. Only the first one clears the
// session and redirects.
func (c *Controller) expire() {
	c.mu.Lock()
	if c.redirected {
		c.mu.Unlock()
		return
	}
	c.redirected = true
	c.mu.Unlock()

	log.Printf("Session expired, redirecting to login")
	if err := c.session.Clear(); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	c.nav.RedirectToLogin()
}

// refreshResults swaps each search hit for its freshly fetched copy and
// drops hits that no longer exist.
func refreshResults(results, fresh []services.Note) []services.Note {
	byID := make(map[string]services.Note, len(fresh))
	for _, n := range fresh {
		byID[n.ID] = n
	}

	out := make([]services.Note, 0, len(results))
	for _, r := range results {
		if n, ok := byID[r.ID]; ok {
			out = append(out, n)
		}
	}
	return out
}

func cloneNote(n services.Note) services.Note {
	if n.Tags != nil {
		n.Tags = append([]string(nil), n.Tags...)
	}
	return n
}

func cloneNotes(notes []services.Note) []services.Note {
	if notes == nil {
		return nil
	}
	out := make([]services.Note, len(notes))
	for i, n := range notes {
		out[i] = cloneNote(n)
	}
	return out
}

func (c *Controller) contains(id string) bool {
	for _, n := range c.notes {
		if n.ID == id {
			return true
		}
	}
	for _, n := range c.searchResults {
		if n.ID == id {
			return true
		}
	}
	return false
}

type discardNotifier struct{}

func (discardNotifier) Notify(Variant, string) {}
