package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"github.com/playeconomy/trading-service/trading-service/saga"
)

// GetPurchaseStateQuery represents the query to get a purchase's state
type GetPurchaseStateQuery struct {
	CorrelationID string `json:"correlation_id"`
}

// GetPurchaseStateResponse represents the last committed purchase snapshot
type GetPurchaseStateResponse struct {
	CorrelationID string        `json:"correlation_id"`
	UserID        string        `json:"user_id"`
	ItemID        string        `json:"item_id"`
	Quantity      int64         `json:"quantity"`
	PurchaseTotal *models.Money `json:"purchase_total,omitempty"`
	State         string        `json:"state"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	Received      string        `json:"received"`
	LastUpdated   string        `json:"last_updated"`
}

// GetPurchaseState use case
type GetPurchaseState struct {
	engine *saga.Engine
}

// NewGetPurchaseState creates a new GetPurchaseState use case
func NewGetPurchaseState(engine *saga.Engine) *GetPurchaseState {
	return &GetPurchaseState{engine: engine}
}

// Execute executes the get purchase state use case. Purchases are reported in
// every state, terminal or not.
func (uc *GetPurchaseState) Execute(ctx context.Context, query *GetPurchaseStateQuery) (*GetPurchaseStateResponse, error) {
	if query.CorrelationID == "" {
		return nil, errors.New("correlation ID is required")
	}

	correlationID, err := models.NewID(query.CorrelationID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid correlation ID")
	}

	purchase, err := uc.engine.GetPurchaseState(ctx, correlationID)
	if err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, "failed to load purchase state")
	}

	response := &GetPurchaseStateResponse{
		CorrelationID: purchase.CorrelationID.String(),
		UserID:        purchase.UserID.String(),
		ItemID:        purchase.ItemID.String(),
		Quantity:      purchase.Quantity,
		PurchaseTotal: purchase.PurchaseTotal,
		State:         string(purchase.State),
		ErrorMessage:  purchase.ErrorMessage,
		Received:      purchase.Received.Format(time.RFC3339),
		LastUpdated:   purchase.LastUpdated.Format(time.RFC3339),
	}

	return response, nil
}
