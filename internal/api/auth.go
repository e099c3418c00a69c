package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/f3rmion/lexis/internal/lexis"
)

// SignUpRequest is the payload of POST /users.
type SignUpRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (lexis.Session, error) {
	var s lexis.Session
	if err := c.do(ctx, http.MethodPost, "/signin", signInRequest{Email: email, Password: password}, &s); err != nil {
		return lexis.Session{}, fmt.Errorf("signing in: %w", err)
	}
	if s.Email == "" {
		s.Email = email
	}
	return s, nil
}

// SignUp creates an account. The caller signs in afterwards.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) error {
	if err := c.do(ctx, http.MethodPost, "/users", req, nil); err != nil {
		return fmt.Errorf("signing up: %w", err)
	}
	return nil
}

// VerifyToken asks the backend whether the client's token is still valid
// and returns the session it belongs to.
func (c *Client) VerifyToken(ctx context.Context) (lexis.Session, error) {
	if c.session.Token == "" {
		return lexis.Session{}, ErrUnauthorized
	}
	var s lexis.Session
	if err := c.do(ctx, http.MethodPost, "/verify-token", nil, &s); err != nil {
		return lexis.Session{}, fmt.Errorf("verifying token: %w", err)
	}
	if s.Token == "" {
		s.Token = c.session.Token
	}
	return s, nil
}
