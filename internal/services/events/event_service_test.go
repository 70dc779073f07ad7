package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

func TestPublishSync_DeliversToAllSubscribers(t *testing.T) {
	service := NewService(arbor.NewLogger())
	defer service.Close()

	var calls int32
	handler := func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}
	require.NoError(t, service.Subscribe(interfaces.EventGenerationState, handler))
	require.NoError(t, service.Subscribe(interfaces.EventGenerationState, handler))

	err := service.PublishSync(context.Background(), interfaces.Event{
		Type:    interfaces.EventGenerationState,
		Payload: models.GenerationStateEvent{Profile: models.ProfilePodcast, State: models.StateAudioGenerating},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPublishSync_ReportsHandlerErrors(t *testing.T) {
	service := NewService(arbor.NewLogger())
	defer service.Close()

	require.NoError(t, service.Subscribe(interfaces.EventSlidesChanged, func(ctx context.Context, event interfaces.Event) error {
		return errors.New("boom")
	}))

	err := service.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventSlidesChanged})
	assert.Error(t, err)
}

func TestPublish_IsAsynchronous(t *testing.T) {
	service := NewService(arbor.NewLogger())
	defer service.Close()

	received := make(chan interfaces.Event, 1)
	require.NoError(t, service.Subscribe(interfaces.EventInteractionRelayed, func(ctx context.Context, event interfaces.Event) error {
		received <- event
		return nil
	}))

	require.NoError(t, service.Publish(context.Background(), interfaces.Event{Type: interfaces.EventInteractionRelayed, Payload: "x"}))

	select {
	case event := <-received:
		assert.Equal(t, "x", event.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestUnsubscribe(t *testing.T) {
	service := NewService(arbor.NewLogger())
	defer service.Close()

	var calls int32
	handler := func(ctx context.Context, event interfaces.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}
	require.NoError(t, service.Subscribe(interfaces.EventSlidesChanged, handler))
	require.NoError(t, service.Unsubscribe(interfaces.EventSlidesChanged, handler))
	assert.Error(t, service.Unsubscribe(interfaces.EventSlidesChanged, handler))

	require.NoError(t, service.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventSlidesChanged}))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestSubscribe_RejectsNil(t *testing.T) {
	service := NewService(arbor.NewLogger())
	assert.Error(t, service.Subscribe(interfaces.EventSlidesChanged, nil))
}

func TestLoggerSubscriber_HandlesPayloadShapes(t *testing.T) {
	subscriber := NewLoggerSubscriber(arbor.NewLogger())
	ctx := context.Background()

	assert.NoError(t, subscriber(ctx, interfaces.Event{
		Type:    interfaces.EventGenerationState,
		Payload: models.GenerationStateEvent{Profile: models.ProfileListicle, State: models.StateFailed, Error: "transport"},
	}))
	assert.NoError(t, subscriber(ctx, interfaces.Event{
		Type:    interfaces.EventInteractionRelayed,
		Payload: map[string]interface{}{"slideId": "slide_1", "capability": "track"},
	}))
	assert.NoError(t, subscriber(ctx, interfaces.Event{Type: interfaces.EventSlidesChanged, Payload: []string{"a", "b"}}))
	assert.NoError(t, subscriber(ctx, interfaces.Event{Type: interfaces.EventSlidesChanged}))
}

func TestSubscribeLoggerToAllEvents(t *testing.T) {
	service := NewService(arbor.NewLogger())
	defer service.Close()

	require.NoError(t, SubscribeLoggerToAllEvents(service, arbor.NewLogger()))
	assert.NoError(t, service.PublishSync(context.Background(), interfaces.Event{Type: interfaces.EventSlidesChanged, Payload: []string{"slide_1"}}))
}
