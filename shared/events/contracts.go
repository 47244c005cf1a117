package events

import (
	"github.com/playeconomy/trading-service/shared/models"
)

// Topics exchanged between the trading service and its collaborators. Commands
// are named after the destination service, events after what happened there.
const (
	// Inbound purchase events
	PurchaseRequestedTopic     Topic = "trading.purchase.requested"
	InventoryItemsGrantedTopic Topic = "inventory.items.granted"
	GilDebitedTopic            Topic = "identity.gil.debited"

	// Fault responses correlated to a previously sent command
	GrantItemsFaultedTopic Topic = "inventory.grant-items.faulted"
	DebitGilFaultedTopic   Topic = "identity.debit-gil.faulted"

	// Outbound commands
	GrantItemsTopic    Topic = "inventory.grant-items"
	DebitGilTopic      Topic = "identity.debit-gil"
	SubtractItemsTopic Topic = "inventory.subtract-items"

	// Status snapshots pushed after every transition
	PurchaseStatusTopic Topic = "trading.purchase.status"
)

// PurchaseRequested initiates a purchase saga
type PurchaseRequested struct {
	UserID   models.ID `json:"user_id"`
	ItemID   models.ID `json:"item_id"`
	Quantity int64     `json:"quantity"`
}

// InventoryItemsGranted reports that the inventory service granted the items
type InventoryItemsGranted struct{}

// GilDebited reports that the identity service debited the purchase total
type GilDebited struct{}

// GrantItems commands the inventory service to grant items to a user
type GrantItems struct {
	UserID   models.ID `json:"user_id"`
	ItemID   models.ID `json:"item_id"`
	Quantity int64     `json:"quantity"`
}

// DebitGil commands the identity service to debit gil from a user
type DebitGil struct {
	UserID models.ID    `json:"user_id"`
	Gil    models.Money `json:"gil"`
}

// SubtractItems compensates an earlier GrantItems after a later step failed
type SubtractItems struct {
	UserID   models.ID `json:"user_id"`
	ItemID   models.ID `json:"item_id"`
	Quantity int64     `json:"quantity"`
}

// Fault wraps a command that could not be processed by its destination. The
// correlation id on the enclosing envelope is the id of the message that
// faulted, so the saga can route it back to the originating purchase no matter
// which command kind failed.
type Fault struct {
	FaultedTopic Topic    `json:"faulted_topic"`
	Errors       []string `json:"errors"`
}

// FirstError returns the first underlying error message, or empty when the
// fault carries none.
func (f Fault) FirstError() string {
	if len(f.Errors) == 0 {
		return ""
	}
	return f.Errors[0]
}
