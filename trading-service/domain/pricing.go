package domain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/models"
)

// ErrUnknownItem is returned when the catalog has no price for an item
var ErrUnknownItem = errors.New("unknown catalog item")

// PriceCalculator computes the total cost of a purchase before the first
// outbound command. Implementations must be idempotent: a save conflict may
// force the initiating transition, and with it this call, to run again.
type PriceCalculator interface {
	ComputeTotal(ctx context.Context, itemID models.ID, quantity int64) (models.Money, error)
}
