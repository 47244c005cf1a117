package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/events"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/saga"
)

// ErrInvalidCommand marks request validation failures so transports can map
// them to a client error instead of a server one.
var ErrInvalidCommand = errors.New("invalid command")

// RequestPurchaseCommand represents the command to start a purchase
type RequestPurchaseCommand struct {
	// CorrelationID is the caller-supplied idempotency key. When empty a new
	// one is generated, making the request non-idempotent across retries.
	CorrelationID string `json:"correlation_id,omitempty"`
	UserID        string `json:"user_id"`
	ItemID        string `json:"item_id"`
	Quantity      int64  `json:"quantity"`
}

// RequestPurchaseResponse represents the response after starting a purchase
type RequestPurchaseResponse struct {
	CorrelationID string `json:"correlation_id"`
	State         string `json:"state"`
	ErrorMessage  string `json:"error_message,omitempty"`
}

// RequestPurchase use case: it feeds the purchase request into the saga and
// reports the state the purchase landed in. Repeated requests with the same
// correlation id are absorbed by the saga's ignore table, so callers can
// safely retry.
type RequestPurchase struct {
	engine *saga.Engine
}

// NewRequestPurchase creates a new RequestPurchase use case
func NewRequestPurchase(engine *saga.Engine) *RequestPurchase {
	return &RequestPurchase{engine: engine}
}

// Execute executes the request purchase use case
func (uc *RequestPurchase) Execute(ctx context.Context, cmd *RequestPurchaseCommand) (*RequestPurchaseResponse, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, errors.Wrapf(ErrInvalidCommand, "%s", err)
	}

	userID, err := models.NewID(cmd.UserID)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCommand, "invalid user ID")
	}

	itemID, err := models.NewID(cmd.ItemID)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidCommand, "invalid item ID")
	}

	correlationID := models.GenerateUUID()
	if cmd.CorrelationID != "" {
		correlationID, err = models.NewID(cmd.CorrelationID)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidCommand, "invalid correlation ID")
		}
	}

	event := events.NewEvent(correlationID, events.PurchaseRequestedTopic, events.PurchaseRequested{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: cmd.Quantity,
	})

	if err := uc.engine.Dispatch(ctx, event); err != nil {
		return nil, errors.Wrap(err, "failed to start purchase")
	}

	purchase, err := uc.engine.GetPurchaseState(ctx, correlationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load purchase state")
	}

	return &RequestPurchaseResponse{
		CorrelationID: purchase.CorrelationID.String(),
		State:         string(purchase.State),
		ErrorMessage:  purchase.ErrorMessage,
	}, nil
}

// validateCommand validates the request purchase command
func (uc *RequestPurchase) validateCommand(cmd *RequestPurchaseCommand) error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}

	if cmd.ItemID == "" {
		return errors.New("item ID is required")
	}

	if cmd.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	return nil
}
