package notifications

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/playeconomy/trading-service/shared/logger"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"github.com/playeconomy/trading-service/trading-service/saga"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const observerSendBuffer = 16

var notificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "trading_notifications_dropped_total",
	Help: "Status pushes dropped because an observer could not keep up",
})

// Observer is one websocket subscriber of a purchase's status
type Observer struct {
	conn *websocket.Conn
	send chan []byte
}

// WritePump writes queued status messages to the connection until the
// observer is unsubscribed. Run it on its own goroutine per connection.
func (o *Observer) WritePump() {
	defer o.conn.Close()

	for message := range o.send {
		if err := o.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	o.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Hub fans purchase status snapshots out to websocket observers, keyed by
// correlation id. Pushes are best-effort: a slow observer loses messages
// rather than slowing the saga down.
type Hub struct {
	mu        sync.RWMutex
	observers map[models.ID]map[*Observer]struct{}
	log       *logger.Logger
}

var _ saga.StatusNotifier = (*Hub)(nil)

// NewHub creates an empty status hub
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}

	return &Hub{
		observers: make(map[models.ID]map[*Observer]struct{}),
		log:       log,
	}
}

// Subscribe registers a connection as an observer of one purchase
func (h *Hub) Subscribe(correlationID models.ID, conn *websocket.Conn) *Observer {
	observer := &Observer{
		conn: conn,
		send: make(chan []byte, observerSendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	observers, ok := h.observers[correlationID]
	if !ok {
		observers = make(map[*Observer]struct{})
		h.observers[correlationID] = observers
	}
	observers[observer] = struct{}{}

	return observer
}

// Unsubscribe removes an observer and closes its send channel
func (h *Hub) Unsubscribe(correlationID models.ID, observer *Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	observers, ok := h.observers[correlationID]
	if !ok {
		return
	}

	if _, ok := observers[observer]; !ok {
		return
	}

	delete(observers, observer)
	close(observer.send)

	if len(observers) == 0 {
		delete(h.observers, correlationID)
	}
}

// PublishStatus pushes a snapshot to every observer of the purchase
func (h *Hub) PublishStatus(ctx context.Context, snapshot domain.Purchase) {
	message, err := json.Marshal(snapshot)
	if err != nil {
		h.log.Error("failed to marshal purchase snapshot", err, map[string]interface{}{
			"correlation_id": snapshot.CorrelationID.String(),
		})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for observer := range h.observers[snapshot.CorrelationID] {
		select {
		case observer.send <- message:
		default:
			notificationsDroppedTotal.Inc()
		}
	}
}
