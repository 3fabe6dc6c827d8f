package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adboard/adboard-api/internal/domain"
	"github.com/adboard/adboard-api/internal/store"
)

// MockAdvertisementStore implements store.AdvertisementStore for testing
type MockAdvertisementStore struct {
	// Function fields for customizable behavior
	CreateFn  func(ctx context.Context, ad *domain.Advertisement) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Advertisement, error)
	UpdateFn  func(ctx context.Context, ad *domain.Advertisement) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
	SearchFn  func(ctx context.Context, filter store.AdvertisementFilter) ([]*domain.Advertisement, error)

	// Data for default implementation
	Ads         map[uuid.UUID]*domain.Advertisement
	CreateError error
	GetError    error
	SearchError error
}

// NewMockAdvertisementStore creates a new mock store with initialized defaults
func NewMockAdvertisementStore() *MockAdvertisementStore {
	return &MockAdvertisementStore{
		Ads: make(map[uuid.UUID]*domain.Advertisement),
	}
}

// Create implements the AdvertisementStore interface
func (m *MockAdvertisementStore) Create(ctx context.Context, ad *domain.Advertisement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ad)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Ads[ad.ID] = ad
	return nil
}

// GetByID implements the AdvertisementStore interface
func (m *MockAdvertisementStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Advertisement, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	ad, exists := m.Ads[id]
	if !exists {
		return nil, store.ErrAdvertisementNotFound
	}
	return ad, nil
}

// Update implements the AdvertisementStore interface
func (m *MockAdvertisementStore) Update(ctx context.Context, ad *domain.Advertisement) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ad)
	}

	if _, exists := m.Ads[ad.ID]; !exists {
		return store.ErrAdvertisementNotFound
	}
	ad.UpdatedAt = time.Now().UTC()
	m.Ads[ad.ID] = ad
	return nil
}

// Delete implements the AdvertisementStore interface
func (m *MockAdvertisementStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if _, exists := m.Ads[id]; !exists {
		return store.ErrAdvertisementNotFound
	}
	delete(m.Ads, id)
	return nil
}

// Search implements the AdvertisementStore interface. The default
// implementation applies the filter in memory, newest first.
func (m *MockAdvertisementStore) Search(ctx context.Context, filter store.AdvertisementFilter) ([]*domain.Advertisement, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, filter)
	}

	if m.SearchError != nil {
		return nil, m.SearchError
	}

	var matched []*domain.Advertisement
	for _, ad := range m.Ads {
		if filter.Title != "" && !strings.Contains(strings.ToLower(ad.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Description != "" && !strings.Contains(strings.ToLower(ad.Description), strings.ToLower(filter.Description)) {
			continue
		}
		if filter.MinPrice != nil && ad.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && ad.Price > *filter.MaxPrice {
			continue
		}
		matched = append(matched, ad)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultSearchLimit
	} else if limit > store.MaxSearchLimit {
		limit = store.MaxSearchLimit
	}

	if filter.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// WithTx implements the AdvertisementStore interface. The mock has no
// transaction state, so it returns itself.
func (m *MockAdvertisementStore) WithTx(tx *sql.Tx) store.AdvertisementStore {
	return m
}
