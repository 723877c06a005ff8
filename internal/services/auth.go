package services

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup is the create-account request body.
type Signup struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignupResult carries the tokens issued by /create-account.
type SignupResult struct {
	AccessToken string
	VerifyToken string
	Message     string
}

// Login exchanges credentials for an access token.
func (s *NotesService) Login(ctx context.Context, creds Credentials) (string, error) {
	var env envelope
	if err := s.do(ctx, http.MethodPost, "/login", creds, &env); err != nil {
		return "", err
	}
	if env.AccessToken == "" {
		return "", errors.New("login: no access token in response")
	}
	return env.AccessToken, nil
}

// CreateAccount registers a user. The service logs the new user in and
// returns an email verification token alongside the access token.
func (s *NotesService) CreateAccount(ctx context.Context, signup Signup) (*SignupResult, error) {
	var env envelope
	if err := s.do(ctx, http.MethodPost, "/create-account", signup, &env); err != nil {
		return nil, err
	}
	return &SignupResult{
		AccessToken: env.AccessToken,
		VerifyToken: env.VerifyToken,
		Message:     env.Message,
	}, nil
}

// VerifyEmail confirms the address tied to a verification token.
func (s *NotesService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New("verify: empty token")
	}

	var env envelope
	if err := s.do(ctx, http.MethodGet, "/verify/"+url.PathEscape(token), nil, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}
