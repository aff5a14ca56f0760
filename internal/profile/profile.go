// Package profile updates user records, either the caller's own or, for
// managers, anyone's.
package profile

import (
	"context"
	"fmt"

	"cafe-terminal/internal/auth"
	"cafe-terminal/internal/cafe"
	"cafe-terminal/internal/executor"
)

// Service edits user profiles.
type Service struct {
	Exec  executor.Executor
	Creds auth.Credentials
}

// NewService returns a profile service. Nil creds stores passwords as entered.
func NewService(exec executor.Executor, creds auth.Credentials) *Service {
	if creds == nil {
		creds = auth.Plaintext{}
	}
	return &Service{Exec: exec, Creds: creds}
}

// canEdit allows users to edit themselves and managers to edit anyone.
func canEdit(sess cafe.Session, target string) error {
	if target == sess.Login {
		return nil
	}
	return sess.RequireManager("update another user")
}

// LookupUser returns the row of login. Managers only.
func (s *Service) LookupUser(ctx context.Context, sess cafe.Session, login string) (executor.Result, error) {
	if err := sess.RequireManager("look up user"); err != nil {
		return executor.Result{}, err
	}
	res, err := s.Exec.QueryRows(ctx, "SELECT login, phonenum, favitems, type FROM users WHERE login = ?", login)
	if err != nil {
		return executor.Result{}, err
	}
	if res.Len() == 0 {
		return executor.Result{}, fmt.Errorf("user %q: %w", login, cafe.ErrNotFound)
	}
	return res, nil
}

// UpdatePassword stores a new password for target, hashed by the configured credentials.
func (s *Service) UpdatePassword(ctx context.Context, sess cafe.Session, target, password string) error {
	if err := canEdit(sess, target); err != nil {
		return err
	}
	stored, err := s.Creds.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Exec.Exec(ctx, "UPDATE users SET password = ? WHERE login = ?", stored, target)
}

// UpdatePhone replaces the phone number of target.
func (s *Service) UpdatePhone(ctx context.Context, sess cafe.Session, target, phone string) error {
	if err := canEdit(sess, target); err != nil {
		return err
	}
	return s.Exec.Exec(ctx, "UPDATE users SET phonenum = ? WHERE login = ?", phone, target)
}

// Favorites returns the stored comma-joined favourite items of target.
func (s *Service) Favorites(ctx context.Context, sess cafe.Session, target string) (string, error) {
	if err := canEdit(sess, target); err != nil {
		return "", err
	}
	res, err := s.Exec.QueryRows(ctx, "SELECT favitems FROM users WHERE login = ?", target)
	if err != nil {
		return "", err
	}
	if res.Len() == 0 {
		return "", fmt.Errorf("user %q: %w", target, cafe.ErrNotFound)
	}
	return cafe.NormalizeField(res.Value(0, 0)), nil
}

// AddFavorite appends item to the favourites list and returns the new value.
// Entries are neither deduplicated nor trimmed.
func (s *Service) AddFavorite(ctx context.Context, sess cafe.Session, target, item string) (string, error) {
	old, err := s.Favorites(ctx, sess, target)
	if err != nil {
		return "", err
	}
	updated := old + "," + item
	if err := s.Exec.Exec(ctx, "UPDATE users SET favitems = ? WHERE login = ?", updated, target); err != nil {
		return "", err
	}
	return updated, nil
}

// AssignRole changes the role of target. Managers only; role must be one of the three names.
func (s *Service) AssignRole(ctx context.Context, sess cafe.Session, target, role string) error {
	if err := sess.RequireManager("assign role"); err != nil {
		return err
	}
	r, err := cafe.ParseRole(role)
	if err != nil {
		return err
	}
	return s.Exec.Exec(ctx, "UPDATE users SET type = ? WHERE login = ?", string(r), target)
}
