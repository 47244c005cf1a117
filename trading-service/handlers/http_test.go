package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/application"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, f *handlerFixture) *httptest.Server {
	router := chi.NewRouter()
	f.purchaseHandlers.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestPurchaseHandlers_RequestPurchase(t *testing.T) {
	userID := models.GenerateUUID()
	itemID := models.GenerateUUID()

	t.Run("accepts a valid purchase", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectPrice(itemID, 2, models.NewGil(100))
		server := newTestServer(t, f)

		body, err := json.Marshal(application.RequestPurchaseCommand{
			UserID:   userID.String(),
			ItemID:   itemID.String(),
			Quantity: 2,
		})
		require.NoError(t, err)

		res, err := http.Post(server.URL+"/purchases", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusAccepted, res.StatusCode)

		var response application.RequestPurchaseResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
		assert.Equal(t, string(domain.StateAccepted), response.State)
		assert.NotEmpty(t, response.CorrelationID)
	})

	t.Run("rejects malformed bodies", func(t *testing.T) {
		f := newHandlerFixture(t)
		server := newTestServer(t, f)

		res, err := http.Post(server.URL+"/purchases", "application/json", strings.NewReader("{not json"))
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("rejects invalid commands", func(t *testing.T) {
		f := newHandlerFixture(t)
		server := newTestServer(t, f)

		body, err := json.Marshal(application.RequestPurchaseCommand{
			UserID:   userID.String(),
			ItemID:   itemID.String(),
			Quantity: 0,
		})
		require.NoError(t, err)

		res, err := http.Post(server.URL+"/purchases", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestPurchaseHandlers_GetPurchaseState(t *testing.T) {
	correlationID := models.GenerateUUID()
	userID := models.GenerateUUID()
	itemID := models.GenerateUUID()

	t.Run("returns the purchase snapshot", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.expectPrice(itemID, 1, models.NewGil(10))
		f.acceptPurchase(t, correlationID, userID, itemID, 1)
		server := newTestServer(t, f)

		res, err := http.Get(server.URL + "/purchases/" + correlationID.String())
		require.NoError(t, err)
		defer res.Body.Close()

		require.Equal(t, http.StatusOK, res.StatusCode)

		var response application.GetPurchaseStateResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&response))
		assert.Equal(t, correlationID.String(), response.CorrelationID)
		assert.Equal(t, string(domain.StateAccepted), response.State)
	})

	t.Run("unknown purchases are 404", func(t *testing.T) {
		f := newHandlerFixture(t)
		server := newTestServer(t, f)

		res, err := http.Get(server.URL + "/purchases/" + models.GenerateUUID().String())
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestPurchaseHandlers_WatchPurchaseStatus(t *testing.T) {
	correlationID := models.GenerateUUID()
	userID := models.GenerateUUID()
	itemID := models.GenerateUUID()

	f := newHandlerFixture(t)
	f.expectPrice(itemID, 1, models.NewGil(10))
	f.acceptPurchase(t, correlationID, userID, itemID, 1)
	server := newTestServer(t, f)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/purchases/" + correlationID.String() + "/status"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Fault the purchase; the observer sees the terminal snapshot
	fault := faultEvent(correlationID)
	require.NoError(t, f.engine.Dispatch(context.Background(), fault))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var snapshot domain.Purchase
	require.NoError(t, json.Unmarshal(message, &snapshot))
	assert.Equal(t, correlationID, snapshot.CorrelationID)
	assert.Equal(t, domain.StateFaulted, snapshot.State)
	assert.Equal(t, "item out of stock", snapshot.ErrorMessage)
}

func TestPurchaseHandlers_WatchPurchaseStatusRejectsBadID(t *testing.T) {
	f := newHandlerFixture(t)
	server := newTestServer(t, f)

	res, err := http.Get(server.URL + "/purchases/not-a-uuid/status")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
