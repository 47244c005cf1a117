package infrastructure

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/playeconomy/trading-service/shared/events"
	"github.com/playeconomy/trading-service/shared/logger"
	"github.com/playeconomy/trading-service/trading-service/saga"
)

const dispatchTimeout = 2 * time.Minute

// BusCommandDispatcher sends saga commands through the event publisher.
// Dispatch is fire-and-forget: delivery is retried with exponential backoff
// on its own goroutine, detached from the transition that queued the command,
// so a slow or failing bus never blocks a committed transition.
type BusCommandDispatcher struct {
	publisher events.Publisher
	log       *logger.Logger
}

var _ saga.CommandDispatcher = (*BusCommandDispatcher)(nil)

// NewBusCommandDispatcher creates a command dispatcher over a publisher
func NewBusCommandDispatcher(publisher events.Publisher, log *logger.Logger) *BusCommandDispatcher {
	if log == nil {
		log = logger.Nop()
	}

	return &BusCommandDispatcher{
		publisher: publisher,
		log:       log,
	}
}

// Dispatch queues the commands for delivery and returns immediately
func (d *BusCommandDispatcher) Dispatch(ctx context.Context, commands ...*events.Event) {
	if len(commands) == 0 {
		return
	}

	go d.deliver(commands)
}

func (d *BusCommandDispatcher) deliver(commands []*events.Event) {
	// The transition that queued these commands has already committed; use a
	// fresh context so its cancellation cannot abort delivery.
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	operation := func() (struct{}, error) {
		return struct{}{}, d.publisher.Publish(ctx, commands...)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(5),
	)
	if err != nil {
		for _, command := range commands {
			d.log.Error("failed to dispatch command", err, map[string]interface{}{
				"correlation_id": command.CorrelationID.String(),
				"topic":          command.Topic.String(),
			})
		}
	}
}
