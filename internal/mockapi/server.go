// Package mockapi is an in-memory implementation of the Note Service used
// for local development (`nd serve`) and tests.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/redjax/notedash/internal/services"
)

// Options configures the dev service.
type Options struct {
	Secret   string
	TokenTTL time.Duration
}

type Server struct {
	store    *Store
	opts     Options
	validate *validator.Validate
	router   *mux.Router
}

func NewServer(store *Store, opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 36 * time.Hour
	}

	s := &Server{
		store:    store,
		opts:     opts,
		validate: validator.New(),
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(loggerMiddleware)

	s.router.HandleFunc("/create-account", s.createAccount).Methods(http.MethodPost)
	s.router.HandleFunc("/login", s.login).Methods(http.MethodPost)
	s.router.HandleFunc("/verify/{token}", s.verify).Methods(http.MethodGet)

	api := s.router.NewRoute().Subrouter()
	api.Use(authMiddleware(s.opts.Secret))
	api.HandleFunc("/get-user", s.getUser).Methods(http.MethodGet)
	api.HandleFunc("/add-note", s.addNote).Methods(http.MethodPost)
	api.HandleFunc("/update-note/{id}", s.updateNote).Methods(http.MethodPut)
	api.HandleFunc("/delete-note/{id}", s.deleteNote).Methods(http.MethodDelete)
	api.HandleFunc("/get-all-notes", s.getAllNotes).Methods(http.MethodGet)
	api.HandleFunc("/search-notes", s.searchNotes).Methods(http.MethodGet)
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe binds addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. ln is closed on
// return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("Note Service listening on http://%s", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req services.Signup
	if !s.decode(w, r, &req) {
		return
	}

	user, verifyToken, err := s.store.CreateUser(req.FullName, req.Email, req.Password)
	if errors.Is(err, ErrUserExists) {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	token, err := IssueToken(user.ID, s.opts.TokenTTL, s.opts.Secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"error":       false,
		"user":        user,
		"accessToken": token,
		"verifyToken": verifyToken,
		"message":     "Registration Successful",
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req services.Credentials
	if !s.decode(w, r, &req) {
		return
	}

	user, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid Credentials")
		return
	}

	token, err := IssueToken(user.ID, s.opts.TokenTTL, s.opts.Secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":       false,
		"email":       user.Email,
		"accessToken": token,
		"message":     "Login Successful",
	})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.Verify(mux.Vars(r)["token"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired verification link")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"user":    user,
		"message": "Email verified successfully",
	})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.User(userID(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"user":    user,
		"message": "",
	})
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request) {
	var req services.NoteDraft
	if !s.decode(w, r, &req) {
		return
	}

	note := s.store.AddNote(userID(r), req)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"note":    note,
		"message": "Note added successfully",
	})
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request) {
	var req services.Note
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.ID = mux.Vars(r)["id"]

	if err := s.validate.Struct(services.DraftOf(req)); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	note, err := s.store.UpdateNote(userID(r), req)
	if err != nil {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"note":    note,
		"message": "Note updated successfully",
	})
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteNote(userID(r), mux.Vars(r)["id"]); err != nil {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"message": "Note deleted successfully",
	})
}

func (s *Server) getAllNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"notes":   s.store.Notes(userID(r)),
		"message": "All notes retrieved successfully",
	})
}

func (s *Server) searchNotes(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"error":   false,
		"notes":   s.store.Search(userID(r), query),
		"message": "Notes matching the search query retrieved successfully",
	})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
	})
}
