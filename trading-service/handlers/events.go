package handlers

import (
	"context"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/events"
	"github.com/playeconomy/trading-service/trading-service/saga"
)

// TradingEventHandlers routes inbound bus events into the purchase saga
type TradingEventHandlers struct {
	engine *saga.Engine
}

// NewTradingEventHandlers creates new trading event handlers
func NewTradingEventHandlers(engine *saga.Engine) *TradingEventHandlers {
	return &TradingEventHandlers{engine: engine}
}

// HandlerID returns the unique identifier for this event handler
func (h *TradingEventHandlers) HandlerID() string {
	return "trading-service-event-handler"
}

// Handle implements the events.EventHandler interface. Returning an error
// leaves the message on the queue for redelivery, so only transient failures
// propagate: events the saga classifies as unexpected are acknowledged here
// after the engine has logged and counted them.
func (h *TradingEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.Topic {
	case events.PurchaseRequestedTopic,
		events.InventoryItemsGrantedTopic,
		events.GilDebitedTopic,
		events.GrantItemsFaultedTopic,
		events.DebitGilFaultedTopic:

		err := h.engine.Dispatch(ctx, event)
		if errors.Is(err, saga.ErrUnexpectedEvent) {
			return nil
		}
		return err

	default:
		// Not a saga event, ignore
		return nil
	}
}
