package events

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

// NewLoggerSubscriber creates an event handler that logs events with their key fields
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		logEvent := logger.Debug().Str("event_type", string(event.Type))

		switch payload := event.Payload.(type) {
		case models.GenerationStateEvent:
			logEvent = logEvent.
				Str("profile", string(payload.Profile)).
				Str("state", string(payload.State))
			if payload.SessionID != "" {
				logEvent = logEvent.Str("session_id", payload.SessionID)
			}
			if payload.Error != "" {
				logEvent = logEvent.Str("error", payload.Error)
			}
		case map[string]interface{}:
			if slideID, ok := payload["slideId"].(string); ok {
				logEvent = logEvent.Str("slide_id", slideID)
			}
			if capability, ok := payload["capability"].(string); ok {
				logEvent = logEvent.Str("capability", capability)
			}
		case []string:
			logEvent = logEvent.Int("count", len(payload))
		}

		logEvent.Msg("Event published")
		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	eventTypes := []interfaces.EventType{
		interfaces.EventGenerationState,
		interfaces.EventSlidesChanged,
		interfaces.EventInteractionRelayed,
	}

	for _, eventType := range eventTypes {
		if err := eventService.Subscribe(eventType, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe logger to event type %s: %w", eventType, err)
		}
	}

	return nil
}
