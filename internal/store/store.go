// Package store is the identity and material persistence layer. Every backend enforces
// uniqueness of email and normalized wallet address itself and reports a violation as
// ErrDuplicate, so callers can treat a failed insert as the authoritative conflict.
package store

import (
	"context"
	"errors"

	"eduvault/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches a lookup
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicate is returned when an insert violates a unique index
	ErrDuplicate = errors.New("store: duplicate identity")
)

// Page selects a window of a listing
type Page struct {
	Offset int
	Limit  int
}

// clamped treats negative values as "from the start" and "no limit"
func (p Page) clamped() Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	return p
}

// IdentityStore finds and inserts identity records
type IdentityStore interface {
	// FindByIdentity matches on email, or on wallet address when wallet is non-empty
	FindByIdentity(ctx context.Context, email, wallet string) (*domain.User, error)
	// FindByWallet matches the wallet address exactly, by normalized copy, or case-insensitively
	FindByWallet(ctx context.Context, wallet string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// InsertUser assigns the record ID and persists it
	InsertUser(ctx context.Context, u *domain.User) error
}

// MaterialStore lists and inserts materials owned by a user address
type MaterialStore interface {
	// ListMaterials returns the owner's materials newest first, plus the total count
	ListMaterials(ctx context.Context, owner string, page Page) ([]domain.Material, int64, error)
	InsertMaterial(ctx context.Context, m *domain.Material) error
}

// Store is a complete backend
type Store interface {
	IdentityStore
	MaterialStore
	// Migrate creates the tables / indexes the backend relies on, including the unique ones
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}
