// Package auth creates accounts and turns a login/password pair into a session.
package auth

import (
	"context"
	"fmt"
	"strings"

	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/executor"
)

// Service signs users up and logs them in.
type Service struct {
	Exec  executor.Executor
	Creds Credentials
}

// NewService returns a Service. A nil creds falls back to Plaintext.
func NewService(exec executor.Executor, creds Credentials) *Service {
	if creds == nil {
		creds = Plaintext{}
	}
	return &Service{Exec: exec, Creds: creds}
}

// SignUp creates a Customer account with no favourite items.
func (s *Service) SignUp(ctx context.Context, login, password, phone string) error {
	if strings.TrimSpace(login) == "" {
		return &cafe.ValidationError{Field: "login", Value: login, Reason: "must not be empty"}
	}
	stored, err := s.Creds.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Exec.Exec(ctx,
		"INSERT INTO users (phonenum, login, password, favitems, type) VALUES (?, ?, ?, ?, ?)",
		phone, login, stored, "", string(cafe.RoleCustomer))
}

// LogIn verifies the credentials and returns the session for login.
func (s *Service) LogIn(ctx context.Context, login, password string) (cafe.Session, error) {
	res, err := s.Exec.QueryRows(ctx, "SELECT password, type FROM users WHERE login = ?", login)
	if err != nil {
		return cafe.Session{}, err
	}
	if res.Len() == 0 || !s.Creds.Verify(res.Value(0, 0), password) {
		return cafe.Session{}, cafe.ErrInvalidCredentials
	}
	return cafe.Session{
		Login: login,
		Role:  cafe.Role(cafe.NormalizeField(res.Value(0, 1))),
	}, nil
}
