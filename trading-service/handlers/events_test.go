package handlers

import (
	"context"
	"testing"

	"github.com/playeconomy/trading-service/shared/events"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseRequestedEvent(correlationID, userID, itemID models.ID, quantity int64) *events.Event {
	return events.NewEvent(correlationID, events.PurchaseRequestedTopic, events.PurchaseRequested{
		UserID:   userID,
		ItemID:   itemID,
		Quantity: quantity,
	})
}

func faultEvent(correlationID models.ID) *events.Event {
	return events.NewEvent(correlationID, events.GrantItemsFaultedTopic, events.Fault{
		FaultedTopic: events.GrantItemsTopic,
		Errors:       []string{"item out of stock"},
	})
}

func TestTradingEventHandlers_HandlerID(t *testing.T) {
	f := newHandlerFixture(t)
	assert.Equal(t, "trading-service-event-handler", f.eventHandlers.HandlerID())
}

func TestTradingEventHandlers_Handle(t *testing.T) {
	ctx := context.Background()
	correlationID := models.GenerateUUID()
	userID := models.GenerateUUID()
	itemID := models.GenerateUUID()

	t.Run("saga events drive the purchase", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectPrice(itemID, 1, models.NewGil(10))

		err := f.eventHandlers.Handle(ctx, purchaseRequestedEvent(correlationID, userID, itemID, 1))
		require.NoError(t, err)

		err = f.eventHandlers.Handle(ctx, events.NewEvent(correlationID, events.InventoryItemsGrantedTopic, events.InventoryItemsGranted{}))
		require.NoError(t, err)

		purchase, err := f.engine.GetPurchaseState(ctx, correlationID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateItemsGranted, purchase.State)
	})

	t.Run("unexpected events are acknowledged", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectPrice(itemID, 1, models.NewGil(10))
		f.acceptPurchase(t, correlationID, userID, itemID, 1)

		// A debit confirmation in Accepted is a protocol anomaly; the handler
		// must still ack it so the queue does not loop on the message.
		err := f.eventHandlers.Handle(ctx, events.NewEvent(correlationID, events.GilDebitedTopic, events.GilDebited{}))
		assert.NoError(t, err)

		purchase, err := f.engine.GetPurchaseState(ctx, correlationID)
		require.NoError(t, err)
		assert.Equal(t, domain.StateAccepted, purchase.State)
	})

	t.Run("unrelated topics are ignored", func(t *testing.T) {
		f := newHandlerFixture(t)

		event := events.NewEvent(models.GenerateUUID(), events.Topic("catalog.item.updated"), nil)
		assert.NoError(t, f.eventHandlers.Handle(ctx, event))
	})

	t.Run("transient failures propagate for redelivery", func(t *testing.T) {
		f := newHandlerFixture(t)

		// A saga event without a correlation id cannot be routed
		event := events.NewEvent("", events.GilDebitedTopic, events.GilDebited{})
		assert.Error(t, f.eventHandlers.Handle(ctx, event))
	})
}
