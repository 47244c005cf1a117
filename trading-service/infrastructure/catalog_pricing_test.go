package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingFixture(t *testing.T) (*CatalogPricing, sqlmock.Sqlmock, *miniredis.Miniredis) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { cache.Close() })

	pricing := NewCatalogPricing(sqlx.NewDb(db, "sqlmock"), cache, time.Minute, nil)
	return pricing, mock, server
}

func TestCatalogPricing_ComputeTotal(t *testing.T) {
	ctx := context.Background()
	itemID := models.GenerateUUID()

	t.Run("loads the unit price from the catalog and caches it", func(t *testing.T) {
		pricing, mock, server := newPricingFixture(t)

		mock.ExpectQuery("SELECT unit_price FROM catalog_items").
			WithArgs(itemID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"unit_price"}).AddRow(int64(25)))

		total, err := pricing.ComputeTotal(ctx, itemID, 4)
		require.NoError(t, err)
		assert.Equal(t, models.NewGil(100), total)

		cached, err := server.Get(priceKeyPrefix + itemID.String())
		require.NoError(t, err)
		assert.Equal(t, "25", cached)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("serves repeat lookups from the cache", func(t *testing.T) {
		pricing, mock, server := newPricingFixture(t)
		require.NoError(t, server.Set(priceKeyPrefix+itemID.String(), "30"))

		// No catalog query expected
		total, err := pricing.ComputeTotal(ctx, itemID, 2)
		require.NoError(t, err)
		assert.Equal(t, models.NewGil(60), total)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown items fail with ErrUnknownItem", func(t *testing.T) {
		pricing, mock, _ := newPricingFixture(t)

		mock.ExpectQuery("SELECT unit_price FROM catalog_items").
			WithArgs(itemID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"unit_price"}))

		_, err := pricing.ComputeTotal(ctx, itemID, 1)
		assert.ErrorIs(t, err, domain.ErrUnknownItem)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		pricing, _, _ := newPricingFixture(t)

		_, err := pricing.ComputeTotal(ctx, itemID, 0)
		assert.Error(t, err)
	})

	t.Run("same inputs always price the same", func(t *testing.T) {
		pricing, mock, _ := newPricingFixture(t)

		mock.ExpectQuery("SELECT unit_price FROM catalog_items").
			WithArgs(itemID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"unit_price"}).AddRow(int64(25)))

		first, err := pricing.ComputeTotal(ctx, itemID, 3)
		require.NoError(t, err)

		// Second computation hits the cache and must agree with the first
		second, err := pricing.ComputeTotal(ctx, itemID, 3)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestCatalogPricing_WithoutCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	pricing := NewCatalogPricing(sqlx.NewDb(db, "sqlmock"), nil, time.Minute, nil)
	itemID := models.GenerateUUID()

	mock.ExpectQuery("SELECT unit_price FROM catalog_items").
		WithArgs(itemID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"unit_price"}).AddRow(int64(10)))

	total, err := pricing.ComputeTotal(context.Background(), itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, models.NewGil(50), total)
}
