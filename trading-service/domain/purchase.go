package domain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/models"
)

// State represents the current state of a purchase saga
type State string

const (
	// StateNone is the implicit state before the purchase record exists
	StateNone         State = ""
	StateAccepted     State = "Accepted"
	StateItemsGranted State = "ItemsGranted"
	StateCompleted    State = "Completed"
	StateFaulted      State = "Faulted"
)

// IsTerminal reports whether the state has no outgoing transitions
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFaulted
}

var (
	// ErrPurchaseNotFound is returned when no record exists for a correlation id
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrPurchaseExists is returned when creating a record whose correlation id
	// is already taken
	ErrPurchaseExists = errors.New("purchase already exists")

	// ErrVersionConflict is returned when a save lost the race against a
	// concurrent save; the caller must reload and retry the whole transition
	ErrVersionConflict = errors.New("purchase version conflict")
)

// Purchase is the persistent state of one in-flight or completed purchase,
// keyed by the correlation id shared with every event and command of the saga.
type Purchase struct {
	CorrelationID models.ID     `json:"correlation_id"`
	UserID        models.ID     `json:"user_id"`
	ItemID        models.ID     `json:"item_id"`
	Quantity      int64         `json:"quantity"`
	PurchaseTotal *models.Money `json:"purchase_total,omitempty"`
	State         State         `json:"state"`
	ErrorMessage  string        `json:"error_message,omitempty"`
	Received      time.Time     `json:"received"`
	LastUpdated   time.Time     `json:"last_updated"`
	Version       models.Version `json:"-"`
}

// NewPurchase creates the record for an initiating purchase request
func NewPurchase(correlationID, userID, itemID models.ID, quantity int64) (*Purchase, error) {
	if correlationID.IsZero() {
		return nil, errors.New("correlation id is required")
	}
	if userID.IsZero() {
		return nil, errors.New("user id is required")
	}
	if itemID.IsZero() {
		return nil, errors.New("item id is required")
	}
	if quantity <= 0 {
		return nil, errors.New("quantity must be positive")
	}

	now := time.Now().UTC()
	return &Purchase{
		CorrelationID: correlationID,
		UserID:        userID,
		ItemID:        itemID,
		Quantity:      quantity,
		State:         StateNone,
		Received:      now,
		LastUpdated:   now,
		Version:       models.NewVersion(),
	}, nil
}

// SetTotal records the computed purchase total. It is set exactly once,
// before the first debit command goes out.
func (p *Purchase) SetTotal(total models.Money) error {
	if p.PurchaseTotal != nil {
		return errors.New("purchase total already set")
	}
	if !total.IsPositive() {
		return errors.New("purchase total must be positive")
	}
	p.PurchaseTotal = &total
	return nil
}

// TransitionTo moves the record into the given state and stamps LastUpdated.
// The version is advanced by the repository on a successful save, not here.
func (p *Purchase) TransitionTo(state State) {
	p.State = state
	p.LastUpdated = time.Now().UTC()
}

// SetError records the first underlying error of a faulted purchase
func (p *Purchase) SetError(errorMessage string) {
	p.ErrorMessage = errorMessage
}

// Snapshot returns a value copy safe to hand to observers
func (p *Purchase) Snapshot() Purchase {
	snapshot := *p
	if p.PurchaseTotal != nil {
		total := *p.PurchaseTotal
		snapshot.PurchaseTotal = &total
	}
	return snapshot
}

// PurchaseRepository persists purchase records with optimistic concurrency.
// FindByID returns (nil, nil) when no record exists. Save fails with
// ErrVersionConflict when a concurrent save intervened since the load.
type PurchaseRepository interface {
	FindByID(ctx context.Context, correlationID models.ID) (*Purchase, error)
	Create(ctx context.Context, purchase *Purchase) error
	Save(ctx context.Context, purchase *Purchase) error
}
