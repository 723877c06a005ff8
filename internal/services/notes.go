package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redjax/notedash/internal/version"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

// NotesService is an HTTP client for the remote Note Service.
type NotesService struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
}

// envelope is the common shape of every Note Service response body.
type envelope struct {
	Error       bool   `json:"error"`
	Message     string `json:"message"`
	Notes       []Note `json:"notes"`
	Note        *Note  `json:"note"`
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
	VerifyToken string `json:"verifyToken"`
}

func NewNotesService(baseURL string, timeout time.Duration, tokens TokenSource) *NotesService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotesService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// BaseURL returns the service root this client talks to.
func (s *NotesService) BaseURL() string {
	return s.baseURL
}

// GetUser returns the profile of the logged-in user. The profile may be
// nil when the service knows the token but not the user.
func (s *NotesService) GetUser(ctx context.Context) (*User, error) {
	var env envelope
	if err := s.do(ctx, http.MethodGet, "/get-user", nil, &env); err != nil {
		return nil, err
	}
	return env.User, nil
}

// GetAllNotes returns every note of the logged-in user in service order.
func (s *NotesService) GetAllNotes(ctx context.Context) ([]Note, error) {
	var env envelope
	if err := s.do(ctx, http.MethodGet, "/get-all-notes", nil, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Notes), nil
}

// SearchNotes returns the notes matching query. No match is an empty,
// non-nil slice.
func (s *NotesService) SearchNotes(ctx context.Context, query string) ([]Note, error) {
	var env envelope
	path := "/search-notes?" + url.Values{"query": {query}}.Encode()
	if err := s.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return nonNil(env.Notes), nil
}

// AddNote creates a note and returns it with the server-assigned fields.
func (s *NotesService) AddNote(ctx context.Context, draft NoteDraft) (*Note, error) {
	var env envelope
	if err := s.do(ctx, http.MethodPost, "/add-note", draft, &env); err != nil {
		return nil, err
	}
	return env.Note, nil
}

// UpdateNote sends the full note to /update-note/{id}.
func (s *NotesService) UpdateNote(ctx context.Context, note Note) (*Note, error) {
	if note.ID == "" {
		return nil, errors.New("update-note: note has no id")
	}

	var env envelope
	if err := s.do(ctx, http.MethodPut, "/update-note/"+url.PathEscape(note.ID), note, &env); err != nil {
		return nil, err
	}
	return env.Note, nil
}

// DeleteNote removes the note with the given id.
func (s *NotesService) DeleteNote(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("delete-note: empty id")
	}
	return s.do(ctx, http.MethodDelete, "/delete-note/"+url.PathEscape(id), nil, nil)
}

func (s *NotesService) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.tokens != nil {
		if token := s.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	var env envelope
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if env.Message != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, env.Message)
		}
		return ErrUnauthorized
	}
	if resp.StatusCode >= 300 || env.Error {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
		}
	}
	return nil
}

func nonNil(notes []Note) []Note {
	if notes == nil {
		return []Note{}
	}
	return notes
}
