package interactions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

// RelayedEvent is the payload of EventInteractionRelayed
type RelayedEvent struct {
	SlideID    string     `json:"slideId"`
	Capability Capability `json:"capability"`
	Delivered  bool       `json:"delivered"`
}

// Relay forwards bridge interactions to the slide's sync endpoint
type Relay struct {
	client *http.Client
	events interfaces.EventService
	logger arbor.ILogger
	now    func() time.Time
}

// NewRelay creates a relay from the [interactions] section. events may be nil.
func NewRelay(config *common.InteractionsConfig, events interfaces.EventService, logger arbor.ILogger) *Relay {
	timeout := common.ParseDurationOr(config.RequestTimeout, 10*time.Second)
	return &Relay{
		client: &http.Client{Timeout: timeout},
		events: events,
		logger: logger,
		now:    time.Now,
	}
}

// Dispatch validates an interaction and, when the slide has a sync endpoint, POSTs
// {capability, payload fields..., slideId, timestamp} to it. Only invalid interactions
// return an error; delivery failures are logged and reported through delivered.
func (r *Relay) Dispatch(ctx context.Context, slide *models.EditorialSlide, interaction *Interaction) (delivered bool, err error) {
	if err := interaction.Validate(); err != nil {
		return false, err
	}
	if slide.SyncEndpoint == "" {
		return false, nil
	}

	body := make(map[string]interface{}, len(interaction.Payload)+3)
	for k, v := range interaction.Payload {
		body[k] = v
	}
	body["capability"] = interaction.Capability
	body["slideId"] = slide.ID
	body["timestamp"] = r.now().UTC().Format(time.RFC3339Nano)

	if err := r.post(ctx, slide.SyncEndpoint, body); err != nil {
		r.logger.Warn().
			Str("slide_id", slide.ID).
			Str("capability", string(interaction.Capability)).
			Str("endpoint", slide.SyncEndpoint).
			Err(err).
			Msg("Interaction sync failed")
	} else {
		delivered = true
		r.logger.Debug().
			Str("slide_id", slide.ID).
			Str("capability", string(interaction.Capability)).
			Msg("Interaction synced")
	}

	if r.events != nil {
		event := interfaces.Event{
			Type:    interfaces.EventInteractionRelayed,
			Payload: RelayedEvent{SlideID: slide.ID, Capability: interaction.Capability, Delivered: delivered},
		}
		if err := r.events.Publish(ctx, event); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to publish interaction event")
		}
	}

	return delivered, nil
}

func (r *Relay) post(ctx context.Context, endpoint string, body map[string]interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
