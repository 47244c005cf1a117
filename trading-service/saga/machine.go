package saga

import (
	"context"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/events"
	"github.com/playeconomy/trading-service/shared/logger"
	"github.com/playeconomy/trading-service/trading-service/domain"
)

// lookupResult classifies what the transition table says about an event
// arriving in a given state.
type lookupResult int

const (
	// lookupFound means a guarded transition exists and must run
	lookupFound lookupResult = iota
	// lookupIgnored means the event is a documented idempotency no-op
	lookupIgnored
	// lookupUnknown means the event is a protocol anomaly in this state
	lookupUnknown
)

// Step accumulates the outcome of one transition: the mutated record, the
// commands to send after commit and whether observers get a status push.
// Effects never talk to the outside world directly; the engine executes the
// accumulated side effects only after the new state is persisted.
type Step struct {
	Record *domain.Purchase
	Event  *events.Event

	next     domain.State
	commands []*events.Event
	notify   bool
}

// TransitionTo overrides the transition's default next state
func (s *Step) TransitionTo(state domain.State) {
	s.next = state
}

// Send queues a command for dispatch after the transition commits
func (s *Step) Send(command *events.Event) {
	s.commands = append(s.commands, command)
}

// Notify requests a status push to observers after the transition commits
func (s *Step) Notify() {
	s.notify = true
}

// Effect mutates the purchase record and queues side effects for one event
type Effect func(ctx context.Context, step *Step) error

// Transition pairs an effect with the state it leads to
type Transition struct {
	Next  domain.State
	Apply Effect
}

// Machine is the purchase saga transition table: for every (state, event
// topic) pair it knows whether the event drives a transition, is explicitly
// ignored, or is a protocol anomaly. The table is data, interpreted by the
// Engine, so it can be tested on its own.
type Machine struct {
	pricing domain.PriceCalculator
	log     *logger.Logger

	transitions map[domain.State]map[events.Topic]Transition
	ignored     map[domain.State]map[events.Topic]bool
}

// NewPurchaseStateMachine builds the purchase transition table
func NewPurchaseStateMachine(pricing domain.PriceCalculator, log *logger.Logger) *Machine {
	if log == nil {
		log = logger.Nop()
	}

	m := &Machine{
		pricing:     pricing,
		log:         log,
		transitions: make(map[domain.State]map[events.Topic]Transition),
		ignored:     make(map[domain.State]map[events.Topic]bool),
	}

	m.configureInitialState()
	m.configureAccepted()
	m.configureItemsGranted()
	m.configureCompleted()
	m.configureFaulted()

	return m
}

// Lookup resolves the transition for an event arriving in the given state
func (m *Machine) Lookup(state domain.State, topic events.Topic) (Transition, lookupResult) {
	if transitions, ok := m.transitions[state]; ok {
		if transition, ok := transitions[topic]; ok {
			return transition, lookupFound
		}
	}

	if m.ignored[state][topic] {
		return Transition{}, lookupIgnored
	}

	return Transition{}, lookupUnknown
}

func (m *Machine) when(state domain.State, topic events.Topic, transition Transition) {
	if m.transitions[state] == nil {
		m.transitions[state] = make(map[events.Topic]Transition)
	}
	m.transitions[state][topic] = transition
}

func (m *Machine) ignore(state domain.State, topics ...events.Topic) {
	if m.ignored[state] == nil {
		m.ignored[state] = make(map[events.Topic]bool)
	}
	for _, topic := range topics {
		m.ignored[state][topic] = true
	}
}

func (m *Machine) configureInitialState() {
	m.when(domain.StateNone, events.PurchaseRequestedTopic, Transition{
		Next:  domain.StateAccepted,
		Apply: m.acceptPurchase,
	})
}

func (m *Machine) configureAccepted() {
	m.ignore(domain.StateAccepted, events.PurchaseRequestedTopic)

	m.when(domain.StateAccepted, events.InventoryItemsGrantedTopic, Transition{
		Next:  domain.StateItemsGranted,
		Apply: m.debitGil,
	})

	m.when(domain.StateAccepted, events.GrantItemsFaultedTopic, Transition{
		Next:  domain.StateFaulted,
		Apply: m.grantItemsFaulted,
	})
}

func (m *Machine) configureItemsGranted() {
	m.ignore(domain.StateItemsGranted,
		events.PurchaseRequestedTopic,
		events.InventoryItemsGrantedTopic,
	)

	m.when(domain.StateItemsGranted, events.GilDebitedTopic, Transition{
		Next:  domain.StateCompleted,
		Apply: m.completePurchase,
	})

	m.when(domain.StateItemsGranted, events.DebitGilFaultedTopic, Transition{
		Next:  domain.StateFaulted,
		Apply: m.debitGilFaulted,
	})
}

func (m *Machine) configureCompleted() {
	m.ignore(domain.StateCompleted,
		events.PurchaseRequestedTopic,
		events.InventoryItemsGrantedTopic,
		events.GilDebitedTopic,
	)
}

func (m *Machine) configureFaulted() {
	m.ignore(domain.StateFaulted,
		events.PurchaseRequestedTopic,
		events.InventoryItemsGrantedTopic,
		events.GilDebitedTopic,
	)
}

// acceptPurchase creates the purchase record, runs the pricing activity and
// sends the grant command. Pricing is the one effect guarded by a catch: any
// failure there redirects the transition onto the faulted path instead of
// surfacing as a handler error.
func (m *Machine) acceptPurchase(ctx context.Context, step *Step) error {
	var data events.PurchaseRequested
	if err := step.Event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "failed to parse purchase request")
	}

	purchase, err := domain.NewPurchase(step.Event.CorrelationID, data.UserID, data.ItemID, data.Quantity)
	if err != nil {
		return errors.Wrap(err, "invalid purchase request")
	}
	step.Record = purchase

	m.log.Info("calculating total price for purchase", map[string]interface{}{
		"correlation_id": purchase.CorrelationID.String(),
	})

	total, err := m.pricing.ComputeTotal(ctx, purchase.ItemID, purchase.Quantity)
	if err != nil {
		purchase.SetError(err.Error())
		step.TransitionTo(domain.StateFaulted)
		step.Notify()
		m.log.Error("could not calculate the total price of purchase", err, map[string]interface{}{
			"correlation_id": purchase.CorrelationID.String(),
		})
		return nil
	}

	if err := purchase.SetTotal(total); err != nil {
		return errors.Wrap(err, "failed to set purchase total")
	}

	step.Send(events.NewEvent(purchase.CorrelationID, events.GrantItemsTopic, events.GrantItems{
		UserID:   purchase.UserID,
		ItemID:   purchase.ItemID,
		Quantity: purchase.Quantity,
	}))

	return nil
}

// debitGil reacts to the granted items by debiting the purchase total
func (m *Machine) debitGil(ctx context.Context, step *Step) error {
	purchase := step.Record
	if purchase.PurchaseTotal == nil {
		return errors.New("purchase total not set before debit")
	}

	m.log.Info("items have been granted to user", map[string]interface{}{
		"correlation_id": purchase.CorrelationID.String(),
		"user_id":        purchase.UserID.String(),
	})

	step.Send(events.NewEvent(purchase.CorrelationID, events.DebitGilTopic, events.DebitGil{
		UserID: purchase.UserID,
		Gil:    *purchase.PurchaseTotal,
	}))

	return nil
}

// grantItemsFaulted records the fault reported by the inventory service
func (m *Machine) grantItemsFaulted(ctx context.Context, step *Step) error {
	fault, err := parseFault(step.Event)
	if err != nil {
		return err
	}

	purchase := step.Record
	purchase.SetError(fault.FirstError())
	step.Notify()

	m.log.Error("could not grant items for purchase", errors.New(purchase.ErrorMessage), map[string]interface{}{
		"correlation_id": purchase.CorrelationID.String(),
	})

	return nil
}

// completePurchase finishes the saga once the debit is confirmed
func (m *Machine) completePurchase(ctx context.Context, step *Step) error {
	purchase := step.Record

	m.log.Info("purchase total has been debited, purchase complete", map[string]interface{}{
		"correlation_id": purchase.CorrelationID.String(),
		"user_id":        purchase.UserID.String(),
	})

	step.Notify()
	return nil
}

// debitGilFaulted compensates the earlier grant and faults the purchase
func (m *Machine) debitGilFaulted(ctx context.Context, step *Step) error {
	fault, err := parseFault(step.Event)
	if err != nil {
		return err
	}

	purchase := step.Record

	step.Send(events.NewEvent(purchase.CorrelationID, events.SubtractItemsTopic, events.SubtractItems{
		UserID:   purchase.UserID,
		ItemID:   purchase.ItemID,
		Quantity: purchase.Quantity,
	}))

	purchase.SetError(fault.FirstError())
	step.Notify()

	m.log.Error("could not debit the total price of purchase", errors.New(purchase.ErrorMessage), map[string]interface{}{
		"correlation_id": purchase.CorrelationID.String(),
		"user_id":        purchase.UserID.String(),
	})

	return nil
}

// parseFault extracts the fault envelope uniformly for both command kinds
func parseFault(event *events.Event) (events.Fault, error) {
	var fault events.Fault
	if err := event.UnmarshalPayload(&fault); err != nil {
		return events.Fault{}, errors.Wrap(err, "failed to parse fault")
	}
	return fault, nil
}
