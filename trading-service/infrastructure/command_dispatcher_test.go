package infrastructure

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/playeconomy/trading-service/shared/events"
	"github.com/playeconomy/trading-service/shared/models"
	"github.com/playeconomy/trading-service/trading-service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBusCommandDispatcher_Dispatch(t *testing.T) {
	command := events.NewEvent(models.GenerateUUID(), events.GrantItemsTopic, events.GrantItems{})

	t.Run("delivers commands through the publisher", func(t *testing.T) {
		published := make(chan *events.Event, 1)

		publisher := mocks.NewMockPublisher(t)
		publisher.EXPECT().Publish(mock.Anything, command).
			Run(func(ctx context.Context, evts ...*events.Event) {
				published <- evts[0]
			}).
			Return(nil).Once()

		dispatcher := NewBusCommandDispatcher(publisher, nil)
		dispatcher.Dispatch(context.Background(), command)

		select {
		case delivered := <-published:
			assert.Equal(t, command, delivered)
		case <-time.After(time.Second):
			t.Fatal("command was not delivered")
		}
	})

	t.Run("retries transient publish failures", func(t *testing.T) {
		done := make(chan struct{})
		attempts := 0

		publisher := mocks.NewMockPublisher(t)
		publisher.EXPECT().Publish(mock.Anything, command).
			RunAndReturn(func(ctx context.Context, evts ...*events.Event) error {
				attempts++
				if attempts < 3 {
					return errors.New("bus unavailable")
				}
				close(done)
				return nil
			}).Times(3)

		dispatcher := NewBusCommandDispatcher(publisher, nil)
		dispatcher.Dispatch(context.Background(), command)

		select {
		case <-done:
			assert.Equal(t, 3, attempts)
		case <-time.After(10 * time.Second):
			t.Fatal("publish was not retried to success")
		}
	})

	t.Run("no commands is a no-op", func(t *testing.T) {
		publisher := mocks.NewMockPublisher(t)
		dispatcher := NewBusCommandDispatcher(publisher, nil)

		dispatcher.Dispatch(context.Background())
	})
}
