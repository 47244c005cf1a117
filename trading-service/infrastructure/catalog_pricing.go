package infrastructure

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/logger"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"github.com/redis/go-redis/v9"
)

const priceKeyPrefix = "trading:price:"

// CatalogPricing computes purchase totals from the catalog table, with unit
// prices cached in Redis. Totals are unit price times quantity, so the same
// inputs always price the same way, which keeps the activity idempotent under
// transition retries.
type CatalogPricing struct {
	db    *sqlx.DB
	cache *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

var _ domain.PriceCalculator = (*CatalogPricing)(nil)

// NewCatalogPricing creates a catalog-backed price calculator. The cache is
// optional; without it every lookup hits the catalog table.
func NewCatalogPricing(db *sqlx.DB, cache *redis.Client, ttl time.Duration, log *logger.Logger) *CatalogPricing {
	if log == nil {
		log = logger.Nop()
	}

	return &CatalogPricing{
		db:    db,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// ComputeTotal returns the gil cost of quantity units of an item
func (p *CatalogPricing) ComputeTotal(ctx context.Context, itemID models.ID, quantity int64) (models.Money, error) {
	if quantity <= 0 {
		return models.Money{}, errors.New("quantity must be positive")
	}

	unitPrice, err := p.unitPrice(ctx, itemID)
	if err != nil {
		return models.Money{}, err
	}

	return models.NewGil(unitPrice).Multiply(quantity), nil
}

func (p *CatalogPricing) unitPrice(ctx context.Context, itemID models.ID) (int64, error) {
	key := priceKeyPrefix + itemID.String()

	if p.cache != nil {
		cached, err := p.cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			price, parseErr := strconv.ParseInt(cached, 10, 64)
			if parseErr == nil {
				return price, nil
			}
			// Unparseable cache entries fall through to the catalog
		case err != redis.Nil:
			p.log.Warn("price cache read failed", map[string]interface{}{
				"item_id": itemID.String(),
				"error":   err.Error(),
			})
		}
	}

	var price int64
	query := `SELECT unit_price FROM catalog_items WHERE id = $1`
	if err := p.db.GetContext(ctx, &price, query, itemID.String()); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrUnknownItem
		}
		return 0, errors.Wrap(err, "failed to load catalog price")
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, strconv.FormatInt(price, 10), p.ttl).Err(); err != nil {
			p.log.Warn("price cache write failed", map[string]interface{}{
				"item_id": itemID.String(),
				"error":   err.Error(),
			})
		}
	}

	return price, nil
}
