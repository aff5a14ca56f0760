// Package cafe holds the vocabulary shared by the cafe workflows: roles,
// item statuses, the logged-in session and the domain errors.
package cafe

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the account type stored in USERS.type.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

// ParseRole accepts exactly one of the three role names.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleEmployee, RoleManager:
		return r, nil
	}
	return "", &ValidationError{Field: "role", Value: s, Reason: "must be Customer, Employee or Manager"}
}

// Status is the preparation state of an order line.
type Status string

const (
	StatusNotStarted Status = "Hasn't started"
	StatusStarted    Status = "Started"
	StatusFinished   Status = "Finished"
)

// ParseStatus accepts exactly one of the three status strings.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNotStarted, StatusStarted, StatusFinished:
		return st, nil
	}
	return "", &ValidationError{Field: "status", Value: s, Reason: "must be Started, Finished or Hasn't started"}
}

// Session is the identity of the logged-in user. It is read once at login.
type Session struct {
	Login string
	Role  Role
}

// IsManager reports whether the session belongs to a manager.
func (s Session) IsManager() bool { return s.Role == RoleManager }

// IsStaff reports whether the session belongs to an employee or a manager.
func (s Session) IsStaff() bool { return s.Role == RoleEmployee || s.Role == RoleManager }

// RequireManager returns ErrForbidden unless the session is a manager.
func (s Session) RequireManager(action string) error {
	if !s.IsManager() {
		return fmt.Errorf("%s: %w", action, ErrForbidden)
	}
	return nil
}

// RequireStaff returns ErrForbidden for customer sessions.
func (s Session) RequireStaff(action string) error {
	if !s.IsStaff() {
		return fmt.Errorf("%s: %w", action, ErrForbidden)
	}
	return nil
}

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not permitted for this role")
	ErrNoItems            = errors.New("no items ordered")
	ErrInvalidCredentials = errors.New("invalid login or password")
)

// ValidationError reports a user supplied value that failed a format, range or enum check.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NormalizeField trims the padding that fixed width CHAR columns carry.
func NormalizeField(s string) string {
	return strings.TrimSpace(s)
}
