package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/platform/logger"
	"github.com/adboard/adboard-api/internal/store"
)

// AdvertisementStore implements the store.AdvertisementStore interface
// using a PostgreSQL database as the storage backend.
type AdvertisementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewAdvertisementStore creates a PostgreSQL implementation of
// store.AdvertisementStore. If logger is nil, a default logger is used.
func NewAdvertisementStore(db store.DBTX, logger *slog.Logger) *AdvertisementStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AdvertisementStore{
		db:     db,
		logger: logger.With(slog.String("component", "advertisement_store")),
	}
}

var _ store.AdvertisementStore = (*AdvertisementStore)(nil)

// Create implements store.AdvertisementStore.Create.
func (s *AdvertisementStore) Create(ctx context.Context, ad *domain.Advertisement) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ad.Validate(); err != nil {
		log.Warn("advertisement validation failed during create",
			slog.String("error", err.Error()),
			slog.String("advertisement_id", ad.ID.String()))
		return err
	}

	query := `
		INSERT INTO advertisements (id, title, description, price, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		ad.ID,
		ad.Title,
		ad.Description,
		ad.Price,
		ad.OwnerID,
		ad.CreatedAt,
		ad.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			log.Warn("owner does not exist for advertisement",
				slog.String("error", err.Error()),
				slog.String("owner_id", ad.OwnerID.String()))
			return fmt.Errorf("%w: owner %s not found", store.ErrInvalidEntity, ad.OwnerID)
		}
		log.Error("failed to create advertisement",
			slog.String("error", err.Error()),
			slog.String("advertisement_id", ad.ID.String()))
		return mapped
	}

	log.Info("advertisement created",
		slog.String("advertisement_id", ad.ID.String()),
		slog.String("owner_id", ad.OwnerID.String()))
	return nil
}

// GetByID implements store.AdvertisementStore.GetByID.
func (s *AdvertisementStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Advertisement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, price, owner_id, created_at, updated_at
		FROM advertisements
		WHERE id = $1
	`

	var ad domain.Advertisement
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&ad.ID,
		&ad.Title,
		&ad.Description,
		&ad.Price,
		&ad.OwnerID,
		&ad.CreatedAt,
		&ad.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAdvertisementNotFound
		}
		log.Error("failed to get advertisement",
			slog.String("error", err.Error()),
			slog.String("advertisement_id", id.String()))
		return nil, MapError(err)
	}

	return &ad, nil
}

// Update implements store.AdvertisementStore.Update. The owner_id column is
// immutable and deliberately not part of the statement.
func (s *AdvertisementStore) Update(ctx context.Context, ad *domain.Advertisement) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ad.Validate(); err != nil {
		log.Warn("advertisement validation failed during update",
			slog.String("error", err.Error()),
			slog.String("advertisement_id", ad.ID.String()))
		return err
	}

	// Stamp the entity so callers serialize the same timestamp the row gets.
	ad.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE advertisements
		SET title = $2, description = $3, price = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		ad.ID,
		ad.Title,
		ad.Description,
		ad.Price,
		ad.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update advertisement",
			slog.String("error", err.Error()),
			slog.String("advertisement_id", ad.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrAdvertisementNotFound
	}

	log.Info("advertisement updated", slog.String("advertisement_id", ad.ID.String()))
	return nil
}

// Delete implements store.AdvertisementStore.Delete.
func (s *AdvertisementStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM advertisements WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete advertisement",
			slog.String("error", err.Error()),
			slog.String("advertisement_id", id.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrAdvertisementNotFound
	}

	log.Info("advertisement deleted", slog.String("advertisement_id", id.String()))
	return nil
}

// Search implements store.AdvertisementStore.Search.
func (s *AdvertisementStore) Search(
	ctx context.Context,
	filter store.AdvertisementFilter,
) ([]*domain.Advertisement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildSearchQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to search advertisements", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	ads := make([]*domain.Advertisement, 0)
	for rows.Next() {
		var ad domain.Advertisement
		if err := rows.Scan(
			&ad.ID,
			&ad.Title,
			&ad.Description,
			&ad.Price,
			&ad.OwnerID,
			&ad.CreatedAt,
			&ad.UpdatedAt,
		); err != nil {
			log.Error("failed to scan advertisement row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		ads = append(ads, &ad)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return ads, nil
}

// buildSearchQuery assembles the SELECT statement and its arguments for the
// given filter. Substring matches use ILIKE with escaped metacharacters so
// user input is always treated literally.
func buildSearchQuery(filter store.AdvertisementFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, title, description, price, owner_id, created_at, updated_at
		FROM advertisements
	`)

	var conditions []string
	var args []any

	if filter.Title != "" {
		args = append(args, "%"+escapeLike(filter.Title)+"%")
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.Description != "" {
		args = append(args, "%"+escapeLike(filter.Description)+"%")
		conditions = append(conditions, fmt.Sprintf("description ILIKE $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("price <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		sb.WriteString("WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
		sb.WriteString("\n")
	}

	sb.WriteString("ORDER BY created_at DESC, id\n")

	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultSearchLimit
	}
	if limit > store.MaxSearchLimit {
		limit = store.MaxSearchLimit
	}
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf("LIMIT $%d", len(args)))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return sb.String(), args
}

// escapeLike escapes LIKE/ILIKE metacharacters in user-supplied patterns.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// WithTx implements store.AdvertisementStore.WithTx.
func (s *AdvertisementStore) WithTx(tx *sql.Tx) store.AdvertisementStore {
	return &AdvertisementStore{
		db:     tx,
		logger: s.logger,
	}
}
