package handlers

import (
	"context"
	"testing"

	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/application"
	"github.com/playeconomy/trading-service/trading-service/infrastructure"
	"github.com/playeconomy/trading-service/trading-service/mocks"
	"github.com/playeconomy/trading-service/trading-service/notifications"
	"github.com/playeconomy/trading-service/trading-service/saga"
	"github.com/stretchr/testify/mock"
)

// handlerFixture bundles a real saga engine over the in-memory store with the
// HTTP and event handlers under test.
type handlerFixture struct {
	engine           *saga.Engine
	hub              *notifications.Hub
	pricing          *mocks.MockPriceCalculator
	purchaseHandlers *PurchaseHandlers
	eventHandlers    *TradingEventHandlers
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	pricing := mocks.NewMockPriceCalculator(t)

	dispatcher := mocks.NewMockCommandDispatcher(t)
	dispatcher.EXPECT().Dispatch(mock.Anything, mock.Anything).Return().Maybe()

	hub := notifications.NewHub(nil)
	machine := saga.NewPurchaseStateMachine(pricing, nil)
	engine := saga.NewEngine(machine, infrastructure.NewMemoryPurchaseRepository(), dispatcher, hub, nil)

	requestPurchase := application.NewRequestPurchase(engine)
	getPurchaseState := application.NewGetPurchaseState(engine)

	return &handlerFixture{
		engine:           engine,
		hub:              hub,
		pricing:          pricing,
		purchaseHandlers: NewPurchaseHandlers(requestPurchase, getPurchaseState, hub, nil),
		eventHandlers:    NewTradingEventHandlers(engine),
	}
}

func (f *handlerFixture) expectPrice(itemID models.ID, quantity int64, total models.Money) {
	f.pricing.EXPECT().ComputeTotal(mock.Anything, itemID, quantity).
		Return(total, nil).Once()
}

func (f *handlerFixture) acceptPurchase(t *testing.T, correlationID, userID, itemID models.ID, quantity int64) {
	t.Helper()
	if err := f.engine.Dispatch(context.Background(), purchaseRequestedEvent(correlationID, userID, itemID, quantity)); err != nil {
		t.Fatalf("failed to accept purchase: %v", err)
	}
}
