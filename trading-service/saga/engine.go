package saga

import (
	"context"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/events"
	"github.com/playeconomy/trading-service/shared/logger"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/shared/telemetry"
	"github.com/playeconomy/trading-service/trading-service/domain"
	"go.opentelemetry.io/otel/attribute"
)

// maxSaveAttempts bounds reload-and-retry on optimistic concurrency
// conflicts. The conflict window is a single competing transition, so the
// bound is small and exhaustion leaves the event unacknowledged for
// redelivery.
const maxSaveAttempts = 3

// ErrUnexpectedEvent marks an event that is neither a transition nor an
// explicit ignore for the purchase's current state. The record stays
// untouched; callers should acknowledge the message to avoid poison loops and
// rely on the anomaly counter for operational follow-up.
var ErrUnexpectedEvent = errors.New("unexpected event for current state")

// CommandDispatcher sends outbound commands to the collaborating services.
// Fire-and-forget: the engine never waits for an outcome, replies come back
// later as independent events.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, commands ...*events.Event)
}

// StatusNotifier pushes purchase snapshots to observers. Best-effort: a
// failed push never blocks or reverts a committed transition.
type StatusNotifier interface {
	PublishStatus(ctx context.Context, snapshot domain.Purchase)
}

// Engine interprets the purchase transition table: it routes each inbound
// event to its record by correlation id, runs the guarded transition under a
// per-purchase lock, persists the result and only then releases the queued
// side effects.
type Engine struct {
	machine    *Machine
	repository domain.PurchaseRepository
	dispatcher CommandDispatcher
	notifier   StatusNotifier
	locks      *correlationLocks
	log        *logger.Logger
}

// NewEngine creates a saga engine for the purchase state machine
func NewEngine(
	machine *Machine,
	repository domain.PurchaseRepository,
	dispatcher CommandDispatcher,
	notifier StatusNotifier,
	log *logger.Logger,
) *Engine {
	if log == nil {
		log = logger.Nop()
	}

	return &Engine{
		machine:    machine,
		repository: repository,
		dispatcher: dispatcher,
		notifier:   notifier,
		locks:      newCorrelationLocks(),
		log:        log,
	}
}

// Dispatch applies one inbound event to its purchase. Events for the same
// correlation id are serialized; independent purchases run in parallel.
// Returning an error leaves the event unacknowledged, except for
// ErrUnexpectedEvent which callers are expected to acknowledge.
func (e *Engine) Dispatch(ctx context.Context, event *events.Event) error {
	if event.CorrelationID.IsZero() {
		return errors.New("event has no correlation id")
	}

	ctx, span := telemetry.StartSpan(ctx, "saga.dispatch")
	span.SetAttributes(
		attribute.String("correlation_id", event.CorrelationID.String()),
		attribute.String("topic", event.Topic.String()),
	)
	defer span.End()

	unlock := e.locks.Lock(event.CorrelationID.String())
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		retry, err := e.applyOnce(ctx, event)
		if !retry {
			return err
		}

		saveConflictsTotal.Inc()
		e.log.Warn("save conflict, retrying transition", map[string]interface{}{
			"correlation_id": event.CorrelationID.String(),
			"topic":          event.Topic.String(),
			"attempt":        attempt + 1,
		})
		lastErr = err
	}

	return lastErr
}

// applyOnce runs a single load-transition-save cycle. It reports retry=true
// when the save lost against a concurrent transition.
func (e *Engine) applyOnce(ctx context.Context, event *events.Event) (retry bool, err error) {
	record, err := e.repository.FindByID(ctx, event.CorrelationID)
	if err != nil {
		return false, errors.Wrap(err, "failed to load purchase")
	}

	state := domain.StateNone
	if record != nil {
		state = record.State
	}

	transition, result := e.machine.Lookup(state, event.Topic)
	switch result {
	case lookupIgnored:
		ignoredEventsTotal.WithLabelValues(string(state), event.Topic.String()).Inc()
		e.log.Debug("ignoring duplicate or late event", map[string]interface{}{
			"correlation_id": event.CorrelationID.String(),
			"state":          string(state),
			"topic":          event.Topic.String(),
		})
		return false, nil

	case lookupUnknown:
		unexpectedEventsTotal.WithLabelValues(string(state), event.Topic.String()).Inc()
		e.log.Warn("unexpected event for current state", map[string]interface{}{
			"correlation_id": event.CorrelationID.String(),
			"state":          string(state),
			"topic":          event.Topic.String(),
		})
		return false, errors.Wrapf(ErrUnexpectedEvent, "state %q, topic %q", state, event.Topic)
	}

	step := &Step{
		Record: record,
		Event:  event,
		next:   transition.Next,
	}

	if err := transition.Apply(ctx, step); err != nil {
		return false, err
	}

	purchase := step.Record
	purchase.TransitionTo(step.next)

	if record == nil {
		err = e.repository.Create(ctx, purchase)
	} else {
		err = e.repository.Save(ctx, purchase)
	}

	switch {
	case errors.Is(err, domain.ErrVersionConflict), errors.Is(err, domain.ErrPurchaseExists):
		// Someone else moved this purchase between our load and save; reload
		// and let the table decide again.
		return true, err
	case err != nil:
		return false, errors.Wrap(err, "failed to persist purchase")
	}

	transitionsTotal.WithLabelValues(string(state), event.Topic.String(), string(purchase.State)).Inc()

	if len(step.commands) > 0 {
		e.dispatcher.Dispatch(ctx, step.commands...)
	}

	if step.notify {
		e.notifier.PublishStatus(ctx, purchase.Snapshot())
	}

	return false, nil
}

// GetPurchaseState returns the last committed snapshot for a correlation id.
// It is safe to call concurrently with in-flight transitions and never
// observes a state mid-transition.
func (e *Engine) GetPurchaseState(ctx context.Context, correlationID models.ID) (*domain.Purchase, error) {
	record, err := e.repository.FindByID(ctx, correlationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load purchase")
	}

	if record == nil {
		return nil, domain.ErrPurchaseNotFound
	}

	snapshot := record.Snapshot()
	return &snapshot, nil
}
