package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/store"
)

func floatPtr(f float64) *float64 { return &f }

func TestBuildSearchQuery(t *testing.T) {
	t.Parallel()

	t.Run("no filters", func(t *testing.T) {
		t.Parallel()
		query, args := buildSearchQuery(store.AdvertisementFilter{})
		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY created_at DESC")
		assert.Contains(t, query, "LIMIT $1")
		require.Len(t, args, 1)
		assert.Equal(t, store.DefaultSearchLimit, args[0])
	})

	t.Run("all filters", func(t *testing.T) {
		t.Parallel()
		query, args := buildSearchQuery(store.AdvertisementFilter{
			Title:       "bike",
			Description: "vintage",
			MinPrice:    floatPtr(10),
			MaxPrice:    floatPtr(500),
			Limit:       25,
			Offset:      50,
		})
		assert.Contains(t, query, "title ILIKE $1")
		assert.Contains(t, query, "description ILIKE $2")
		assert.Contains(t, query, "price >= $3")
		assert.Contains(t, query, "price <= $4")
		assert.Contains(t, query, "LIMIT $5")
		assert.Contains(t, query, "OFFSET $6")
		require.Len(t, args, 6)
		assert.Equal(t, "%bike%", args[0])
		assert.Equal(t, "%vintage%", args[1])
		assert.Equal(t, 10.0, args[2])
		assert.Equal(t, 500.0, args[3])
		assert.Equal(t, 25, args[4])
		assert.Equal(t, 50, args[5])
	})

	t.Run("conditions joined with AND", func(t *testing.T) {
		t.Parallel()
		query, _ := buildSearchQuery(store.AdvertisementFilter{
			Title:    "bike",
			MaxPrice: floatPtr(100),
		})
		assert.Equal(t, 1, strings.Count(query, " AND "))
	})

	t.Run("limit clamped to maximum", func(t *testing.T) {
		t.Parallel()
		_, args := buildSearchQuery(store.AdvertisementFilter{Limit: 10000})
		require.Len(t, args, 1)
		assert.Equal(t, store.MaxSearchLimit, args[0])
	})

	t.Run("like metacharacters escaped", func(t *testing.T) {
		t.Parallel()
		_, args := buildSearchQuery(store.AdvertisementFilter{Title: "50%_off\\deal"})
		require.Len(t, args, 2)
		assert.Equal(t, `%50\%\_off\\deal%`, args[0])
	})
}
