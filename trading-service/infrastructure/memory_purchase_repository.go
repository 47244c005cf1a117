package infrastructure

import (
	"context"
	"sync"

	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/domain"
)

// MemoryPurchaseRepository is an in-memory PurchaseRepository with the same
// optimistic concurrency semantics as the Postgres implementation. Used by
// tests and local runs without a database.
type MemoryPurchaseRepository struct {
	mu        sync.RWMutex
	purchases map[models.ID]domain.Purchase
}

// NewMemoryPurchaseRepository creates an empty in-memory repository
func NewMemoryPurchaseRepository() *MemoryPurchaseRepository {
	return &MemoryPurchaseRepository{
		purchases: make(map[models.ID]domain.Purchase),
	}
}

// FindByID finds a purchase by correlation id, (nil, nil) when absent
func (r *MemoryPurchaseRepository) FindByID(ctx context.Context, correlationID models.ID) (*domain.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.purchases[correlationID]
	if !ok {
		return nil, nil
	}

	snapshot := stored.Snapshot()
	return &snapshot, nil
}

// Create inserts a new purchase record
func (r *MemoryPurchaseRepository) Create(ctx context.Context, purchase *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.purchases[purchase.CorrelationID]; ok {
		return domain.ErrPurchaseExists
	}

	r.purchases[purchase.CorrelationID] = purchase.Snapshot()
	return nil
}

// Save updates an existing purchase, failing with ErrVersionConflict when the
// stored version no longer matches the loaded one
func (r *MemoryPurchaseRepository) Save(ctx context.Context, purchase *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.purchases[purchase.CorrelationID]
	if !ok {
		return domain.ErrPurchaseNotFound
	}

	if stored.Version.Value != purchase.Version.Value {
		return domain.ErrVersionConflict
	}

	purchase.Version = purchase.Version.Update()
	r.purchases[purchase.CorrelationID] = purchase.Snapshot()
	return nil
}
