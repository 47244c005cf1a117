package domain

import (
	"testing"

	"github.com/playeconomy/trading-service/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchase(t *testing.T) {
	correlationID := models.GenerateUUID()
	userID := models.GenerateUUID()
	itemID := models.GenerateUUID()

	tests := []struct {
		name          string
		correlationID models.ID
		userID        models.ID
		itemID        models.ID
		quantity      int64
		expectedError string
	}{
		{
			name:          "valid purchase",
			correlationID: correlationID,
			userID:        userID,
			itemID:        itemID,
			quantity:      3,
		},
		{
			name:          "missing correlation id",
			userID:        userID,
			itemID:        itemID,
			quantity:      1,
			expectedError: "correlation id is required",
		},
		{
			name:          "missing user id",
			correlationID: correlationID,
			itemID:        itemID,
			quantity:      1,
			expectedError: "user id is required",
		},
		{
			name:          "missing item id",
			correlationID: correlationID,
			userID:        userID,
			quantity:      1,
			expectedError: "item id is required",
		},
		{
			name:          "zero quantity",
			correlationID: correlationID,
			userID:        userID,
			itemID:        itemID,
			quantity:      0,
			expectedError: "quantity must be positive",
		},
		{
			name:          "negative quantity",
			correlationID: correlationID,
			userID:        userID,
			itemID:        itemID,
			quantity:      -5,
			expectedError: "quantity must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			purchase, err := NewPurchase(tt.correlationID, tt.userID, tt.itemID, tt.quantity)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, purchase)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.correlationID, purchase.CorrelationID)
			assert.Equal(t, StateNone, purchase.State)
			assert.Nil(t, purchase.PurchaseTotal)
			assert.Equal(t, 1, purchase.Version.Value)
			assert.Equal(t, purchase.Received, purchase.LastUpdated)
		})
	}
}

func TestPurchase_SetTotal(t *testing.T) {
	purchase, err := NewPurchase(models.GenerateUUID(), models.GenerateUUID(), models.GenerateUUID(), 2)
	require.NoError(t, err)

	require.NoError(t, purchase.SetTotal(models.NewGil(100)))
	require.NotNil(t, purchase.PurchaseTotal)
	assert.Equal(t, models.NewGil(100), *purchase.PurchaseTotal)

	// A second total must not overwrite the first
	err = purchase.SetTotal(models.NewGil(999))
	assert.Error(t, err)
	assert.Equal(t, models.NewGil(100), *purchase.PurchaseTotal)
}

func TestPurchase_SetTotalRejectsNonPositive(t *testing.T) {
	purchase, err := NewPurchase(models.GenerateUUID(), models.GenerateUUID(), models.GenerateUUID(), 2)
	require.NoError(t, err)

	assert.Error(t, purchase.SetTotal(models.NewGil(0)))
	assert.Error(t, purchase.SetTotal(models.NewGil(-10)))
	assert.Nil(t, purchase.PurchaseTotal)
}

func TestPurchase_TransitionTo(t *testing.T) {
	purchase, err := NewPurchase(models.GenerateUUID(), models.GenerateUUID(), models.GenerateUUID(), 1)
	require.NoError(t, err)

	before := purchase.LastUpdated
	purchase.TransitionTo(StateAccepted)

	assert.Equal(t, StateAccepted, purchase.State)
	assert.False(t, purchase.LastUpdated.Before(before))
	// The version only moves on a successful save
	assert.Equal(t, 1, purchase.Version.Value)
}

func TestPurchase_Snapshot(t *testing.T) {
	purchase, err := NewPurchase(models.GenerateUUID(), models.GenerateUUID(), models.GenerateUUID(), 1)
	require.NoError(t, err)
	require.NoError(t, purchase.SetTotal(models.NewGil(42)))

	snapshot := purchase.Snapshot()
	snapshot.State = StateCompleted
	snapshot.PurchaseTotal.Amount = 0

	// Mutating the snapshot must not leak back into the record
	assert.Equal(t, StateNone, purchase.State)
	assert.Equal(t, int64(42), purchase.PurchaseTotal.Amount)
}

func TestState_IsTerminal(t *testing.T) {
	assert.False(t, StateNone.IsTerminal())
	assert.False(t, StateAccepted.IsTerminal())
	assert.False(t, StateItemsGranted.IsTerminal())
	assert.True(t, StateCompleted.IsTerminal())
	assert.True(t, StateFaulted.IsTerminal())
}
