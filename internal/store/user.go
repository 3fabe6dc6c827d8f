package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user. The user must already carry a hashed
	// password. Returns ErrUsernameExists or ErrEmailExists when the
	// corresponding unique constraint is violated.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update persists changes to username, email and hashed password, and
	// refreshes UpdatedAt on the entity to the value written to the row.
	// The role is never changed by Update. Returns ErrUserNotFound if the
	// user does not exist, ErrUsernameExists/ErrEmailExists on conflicts.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID. Advertisements owned by the user are
	// removed with it. Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction. The
	// transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
