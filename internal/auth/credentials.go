package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Credentials turns passwords into their stored form and checks them.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(stored, supplied string) bool
}

// Plaintext stores passwords as given and compares them byte for byte.
type Plaintext struct{}

// Hash returns password unchanged.
func (Plaintext) Hash(password string) (string, error) { return password, nil }

// Verify compares stored and supplied byte for byte.
func (Plaintext) Verify(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// Bcrypt stores bcrypt hashes.
type Bcrypt struct {
	Cost int
}

// Hash returns the bcrypt hash of password.
func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether supplied matches the stored bcrypt hash.
func (Bcrypt) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}
