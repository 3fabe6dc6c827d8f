package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
)

// Search paging bounds applied when the caller does not specify a limit or
// asks for more than the cap.
const (
	DefaultSearchLimit = 50
	MaxSearchLimit     = 200
)

// AdvertisementFilter selects advertisements for Search. All fields are
// optional; zero values mean "no constraint".
type AdvertisementFilter struct {
	// Title matches advertisements whose title contains this substring,
	// case-insensitively.
	Title string

	// Description matches advertisements whose description contains this
	// substring, case-insensitively.
	Description string

	// MinPrice and MaxPrice bound the price range inclusively. A nil
	// pointer leaves that bound open.
	MinPrice *float64
	MaxPrice *float64

	// Limit caps the number of rows returned. Zero applies
	// DefaultSearchLimit; values above MaxSearchLimit are clamped.
	Limit int

	// Offset skips that many rows for paging.
	Offset int
}

// AdvertisementStore defines the interface for advertisement persistence.
type AdvertisementStore interface {
	// Create saves a new advertisement. Returns ErrInvalidEntity if the
	// owner does not exist (foreign key violation).
	Create(ctx context.Context, ad *domain.Advertisement) error

	// GetByID retrieves an advertisement by ID.
	// Returns ErrAdvertisementNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Advertisement, error)

	// Update persists changes to title, description and price, and
	// refreshes UpdatedAt on the entity to the value written to the row.
	// OwnerID is immutable and never written. Returns
	// ErrAdvertisementNotFound if the advertisement does not exist.
	Update(ctx context.Context, ad *domain.Advertisement) error

	// Delete removes an advertisement by ID.
	// Returns ErrAdvertisementNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Search returns advertisements matching the filter, newest first.
	Search(ctx context.Context, filter AdvertisementFilter) ([]*domain.Advertisement, error)

	// WithTx returns an AdvertisementStore bound to the given transaction.
	WithTx(tx *sql.Tx) AdvertisementStore
}
