// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"accountd/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when no account
// matches the lookup. Absence is an expected outcome, not a storage fault.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByEmail retrieves a single account by exact email match.
	// It does not normalize case. Returns ErrAccountNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Create persists a new account. The storage layer's unique constraint on
	// email is the sole race-safety mechanism; a violation surfaces as
	// domainerrors.ErrAccountAlreadyExists regardless of any prior lookup.
	Create(ctx context.Context, account *entity.Account) error
}
