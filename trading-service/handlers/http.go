package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/logger"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/application"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"github.com/playeconomy/trading-service/trading-service/notifications"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// PurchaseHandlers contains purchase HTTP handlers
type PurchaseHandlers struct {
	requestPurchase  *application.RequestPurchase
	getPurchaseState *application.GetPurchaseState
	hub              *notifications.Hub
	log              *logger.Logger
}

// NewPurchaseHandlers creates new purchase handlers
func NewPurchaseHandlers(
	requestPurchase *application.RequestPurchase,
	getPurchaseState *application.GetPurchaseState,
	hub *notifications.Hub,
	log *logger.Logger,
) *PurchaseHandlers {
	if log == nil {
		log = logger.Nop()
	}

	return &PurchaseHandlers{
		requestPurchase:  requestPurchase,
		getPurchaseState: getPurchaseState,
		hub:              hub,
		log:              log,
	}
}

// RequestPurchase handles purchase requests. The purchase is accepted for
// processing; its outcome arrives asynchronously, so the response carries the
// state reached so far and the correlation id to follow up with.
func (h *PurchaseHandlers) RequestPurchase(w http.ResponseWriter, r *http.Request) {
	var cmd application.RequestPurchaseCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.requestPurchase.Execute(r.Context(), &cmd)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCommand) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(response)
}

// GetPurchaseState handles purchase state queries
func (h *PurchaseHandlers) GetPurchaseState(w http.ResponseWriter, r *http.Request) {
	correlationID := chi.URLParam(r, "id")
	if correlationID == "" {
		http.Error(w, "Correlation ID is required", http.StatusBadRequest)
		return
	}

	query := &application.GetPurchaseStateQuery{
		CorrelationID: correlationID,
	}

	response, err := h.getPurchaseState.Execute(r.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) {
			http.Error(w, "purchase not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// WatchPurchaseStatus upgrades the connection and streams status snapshots for
// one purchase until the client disconnects.
func (h *PurchaseHandlers) WatchPurchaseStatus(w http.ResponseWriter, r *http.Request) {
	correlationID, err := models.NewID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid correlation ID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", map[string]interface{}{
			"correlation_id": correlationID.String(),
			"error":          err.Error(),
		})
		return
	}

	observer := h.hub.Subscribe(correlationID, conn)
	go observer.WritePump()

	// Drain client frames so pings and close handshakes are processed; the
	// read error on disconnect tears the observer down.
	go func() {
		defer h.hub.Unsubscribe(correlationID, observer)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// RegisterRoutes registers purchase routes
func (h *PurchaseHandlers) RegisterRoutes(r chi.Router) {
	r.Route("/purchases", func(r chi.Router) {
		r.Post("/", h.RequestPurchase)
		r.Get("/{id}", h.GetPurchaseState)
		r.Get("/{id}/status", h.WatchPurchaseStatus)
	})
}
