// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the sole entity in the system: one stored credential record
// per email address.
type Account struct {
	ID           uuid.UUID // Unique identifier, assigned at creation, immutable.
	Email        string    // Login identifier, unique across all accounts, stored exactly as given.
	Fullname     string    // Optional display name; required only when signup.requireFullname is set.
	PasswordHash string    // Salted bcrypt hash of the signup password. Never the plaintext.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification. Accounts are never mutated in scope.
}
