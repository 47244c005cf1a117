package application

import (
	"context"
	"testing"

	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"github.com/playeconomy/trading-service/trading-service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetPurchaseState_Execute(t *testing.T) {
	validCorrelationID := "550e8400-e29b-41d4-a716-446655440050"

	t.Run("returns the purchase snapshot", func(t *testing.T) {
		pricing := mocks.NewMockPriceCalculator(t)
		pricing.EXPECT().ComputeTotal(mock.Anything, mock.Anything, int64(3)).
			Return(models.NewGil(90), nil).Once()

		engine := newSagaEngine(t, pricing)
		request := NewRequestPurchase(engine)
		_, err := request.Execute(context.Background(), &RequestPurchaseCommand{
			CorrelationID: validCorrelationID,
			UserID:        "550e8400-e29b-41d4-a716-446655440010",
			ItemID:        "550e8400-e29b-41d4-a716-446655440020",
			Quantity:      3,
		})
		require.NoError(t, err)

		uc := NewGetPurchaseState(engine)
		response, err := uc.Execute(context.Background(), &GetPurchaseStateQuery{
			CorrelationID: validCorrelationID,
		})
		require.NoError(t, err)

		assert.Equal(t, validCorrelationID, response.CorrelationID)
		assert.Equal(t, string(domain.StateAccepted), response.State)
		assert.Equal(t, int64(3), response.Quantity)
		require.NotNil(t, response.PurchaseTotal)
		assert.Equal(t, models.NewGil(90), *response.PurchaseTotal)
		assert.Empty(t, response.ErrorMessage)
		assert.NotEmpty(t, response.Received)
		assert.NotEmpty(t, response.LastUpdated)
	})

	t.Run("unknown purchase", func(t *testing.T) {
		uc := NewGetPurchaseState(newSagaEngine(t, mocks.NewMockPriceCalculator(t)))

		response, err := uc.Execute(context.Background(), &GetPurchaseStateQuery{
			CorrelationID: validCorrelationID,
		})
		assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
		assert.Nil(t, response)
	})

	t.Run("missing correlation id", func(t *testing.T) {
		uc := NewGetPurchaseState(newSagaEngine(t, mocks.NewMockPriceCalculator(t)))

		_, err := uc.Execute(context.Background(), &GetPurchaseStateQuery{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "correlation ID is required")
	})

	t.Run("malformed correlation id", func(t *testing.T) {
		uc := NewGetPurchaseState(newSagaEngine(t, mocks.NewMockPriceCalculator(t)))

		_, err := uc.Execute(context.Background(), &GetPurchaseStateQuery{
			CorrelationID: "not-a-uuid",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid correlation ID")
	})
}
