package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redjax/notedash/internal/services"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrInvalidVerifyToken = errors.New("invalid or expired verification link")
)

type account struct {
	user         services.User
	passwordHash []byte
	verifyToken  string
}

// Store is an in-memory, per-user note store.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account // by user id
	byEmail  map[string]string   // email -> user id
	notes    map[string]services.Note
	now      func() time.Time
	cost     int
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		notes:    make(map[string]services.Note),
		now:      func() time.Time { return time.Now().UTC() },
		cost:     bcrypt.DefaultCost,
	}
}

// CreateUser registers an account and returns it with its email
// verification token.
func (s *Store) CreateUser(fullName, email, password string) (services.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return services.User{}, "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return services.User{}, "", ErrUserExists
	}

	acct := &account{
		user: services.User{
			ID:        uuid.New().String(),
			FullName:  strings.TrimSpace(fullName),
			Email:     email,
			CreatedOn: s.now(),
		},
		passwordHash: hash,
		verifyToken:  uuid.New().String(),
	}
	s.accounts[acct.user.ID] = acct
	s.byEmail[email] = acct.user.ID

	return acct.user, acct.verifyToken, nil
}

// Authenticate checks an email/password pair.
func (s *Store) Authenticate(email, password string) (services.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	id, ok := s.byEmail[email]
	var acct *account
	if ok {
		acct = s.accounts[id]
	}
	s.mu.RUnlock()

	if acct == nil {
		return services.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return services.User{}, ErrInvalidCredentials
	}
	return acct.user, nil
}

// Verify marks the account owning token as verified. Tokens are single use.
func (s *Store) Verify(token string) (services.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accounts {
		if acct.verifyToken != "" && acct.verifyToken == token {
			acct.user.IsVerified = true
			acct.verifyToken = ""
			return acct.user, nil
		}
	}
	return services.User{}, ErrInvalidVerifyToken
}

func (s *Store) User(id string) (services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[id]
	if !ok {
		return services.User{}, ErrUserNotFound
	}
	return acct.user, nil
}

func (s *Store) AddNote(userID string, draft services.NoteDraft) services.Note {
	note := services.Note{
		ID:        uuid.New().String(),
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      services.NormalizeTags(draft.Tags),
		UserID:    userID,
		CreatedOn: s.now(),
	}

	s.mu.Lock()
	s.notes[note.ID] = note
	s.mu.Unlock()

	return note
}

// UpdateNote replaces the editable fields of a note owned by userID.
func (s *Store) UpdateNote(userID string, in services.Note) (services.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[in.ID]
	if !ok || note.UserID != userID {
		return services.Note{}, ErrNoteNotFound
	}

	note.Title = in.Title
	note.Content = in.Content
	note.Tags = services.NormalizeTags(in.Tags)
	note.IsPinned = in.IsPinned
	note.IsFavorite = in.IsFavorite
	s.notes[note.ID] = note

	return note, nil
}

func (s *Store) DeleteNote(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok || note.UserID != userID {
		return ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

// Notes lists the user's notes, pinned first, then newest first.
func (s *Store) Notes(userID string) []services.Note {
	return s.filter(userID, func(services.Note) bool { return true })
}

// Search matches query case-insensitively against title, content and tags.
func (s *Store) Search(userID, query string) []services.Note {
	q := strings.ToLower(query)
	return s.filter(userID, func(n services.Note) bool {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			return true
		}
		for _, tag := range n.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	})
}

func (s *Store) filter(userID string, keep func(services.Note) bool) []services.Note {
	s.mu.RLock()
	out := []services.Note{}
	for _, n := range s.notes {
		if n.UserID == userID && keep(n) {
			out = append(out, n)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		if !out[i].CreatedOn.Equal(out[j].CreatedOn) {
			return out[i].CreatedOn.After(out[j].CreatedOn)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
