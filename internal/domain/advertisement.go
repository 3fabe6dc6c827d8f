package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Advertisement validation errors.
var (
	ErrEmptyAdvertisementID = errors.New("advertisement ID cannot be empty")
	ErrEmptyTitle           = errors.New("title cannot be empty")
	ErrTitleTooLong         = errors.New("title must be at most 100 characters long")
	ErrEmptyDescription     = errors.New("description cannot be empty")
	ErrDescriptionTooLong   = errors.New("description must be at most 1000 characters long")
	ErrNonPositivePrice     = errors.New("price must be greater than zero")
	ErrEmptyOwnerID         = errors.New("owner ID cannot be empty")
)

// Advertisement represents a listing published by a user. OwnerID is set at
// creation time and is immutable for the lifetime of the record.
type Advertisement struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAdvertisement creates an Advertisement owned by ownerID with a fresh ID
// and timestamps, and validates it.
func NewAdvertisement(title, description string, price float64, ownerID uuid.UUID) (*Advertisement, error) {
	now := time.Now().UTC()
	ad := &Advertisement{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Price:       price,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := ad.Validate(); err != nil {
		return nil, err
	}

	return ad, nil
}

// Validate checks field constraints.
func (a *Advertisement) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAdvertisementID
	}

	if a.Title == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > 100 {
		return ErrTitleTooLong
	}

	if a.Description == "" {
		return ErrEmptyDescription
	}
	if len(a.Description) > 1000 {
		return ErrDescriptionTooLong
	}

	if a.Price <= 0 {
		return ErrNonPositivePrice
	}

	if a.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}

	return nil
}
