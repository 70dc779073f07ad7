package interactions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/models"
)

func newTestRelay() *Relay {
	relay := NewRelay(&common.InteractionsConfig{RequestTimeout: "2s"}, nil, arbor.NewLogger())
	relay.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return relay
}

func TestInteraction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      Interaction
		wantErr bool
	}{
		{name: "track", in: Interaction{Capability: CapabilityTrack, Payload: map[string]interface{}{"itemId": "m1", "action": "complete"}}},
		{name: "track with url", in: Interaction{Version: "v1", Capability: CapabilityTrack, Payload: map[string]interface{}{"itemId": "m1", "action": "open", "targetUrl": "https://x"}}},
		{name: "track bad url", in: Interaction{Capability: CapabilityTrack, Payload: map[string]interface{}{"itemId": "m1", "action": "open", "targetUrl": 5.0}}, wantErr: true},
		{name: "track missing item", in: Interaction{Capability: CapabilityTrack, Payload: map[string]interface{}{"action": "open"}}, wantErr: true},
		{name: "quick reply", in: Interaction{Capability: CapabilitySendQuickReply, Payload: map[string]interface{}{"text": "Yes"}}},
		{name: "message blank", in: Interaction{Capability: CapabilitySendMessage, Payload: map[string]interface{}{"text": "  "}}, wantErr: true},
		{name: "unknown capability", in: Interaction{Capability: "navigate", Payload: map[string]interface{}{}}, wantErr: true},
		{name: "future version", in: Interaction{Version: "v2", Capability: CapabilitySendMessage, Payload: map[string]interface{}{"text": "hi"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, ProtocolVersion, tt.in.Version)
			}
		})
	}
}

func TestRelay_DispatchPostsToSyncEndpoint(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	slide := &models.EditorialSlide{ID: "slide_1", SyncEndpoint: server.URL}
	delivered, err := newTestRelay().Dispatch(context.Background(), slide, &Interaction{
		Capability: CapabilityTrack,
		Payload:    map[string]interface{}{"itemId": "module-2", "action": "complete"},
	})
	require.NoError(t, err)
	assert.True(t, delivered)

	body := <-received
	assert.Equal(t, "track", body["capability"])
	assert.Equal(t, "module-2", body["itemId"])
	assert.Equal(t, "complete", body["action"])
	assert.Equal(t, "slide_1", body["slideId"])
	assert.Equal(t, "2026-03-01T12:00:00Z", body["timestamp"])
}

func TestRelay_DeliveryFailureIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	slide := &models.EditorialSlide{ID: "slide_1", SyncEndpoint: server.URL}
	delivered, err := newTestRelay().Dispatch(context.Background(), slide, &Interaction{
		Capability: CapabilitySendMessage,
		Payload:    map[string]interface{}{"text": "hello"},
	})
	assert.NoError(t, err)
	assert.False(t, delivered)

	slide.SyncEndpoint = "http://127.0.0.1:1/unreachable"
	delivered, err = newTestRelay().Dispatch(context.Background(), slide, &Interaction{
		Capability: CapabilitySendMessage,
		Payload:    map[string]interface{}{"text": "hello"},
	})
	assert.NoError(t, err)
	assert.False(t, delivered)
}

func TestRelay_NoEndpoint(t *testing.T) {
	delivered, err := newTestRelay().Dispatch(context.Background(), &models.EditorialSlide{ID: "s"}, &Interaction{
		Capability: CapabilitySendQuickReply,
		Payload:    map[string]interface{}{"text": "ok"},
	})
	assert.NoError(t, err)
	assert.False(t, delivered)
}

func TestRelay_InvalidInteraction(t *testing.T) {
	_, err := newTestRelay().Dispatch(context.Background(), &models.EditorialSlide{ID: "s", SyncEndpoint: "http://unused"}, &Interaction{Capability: "teleport"})
	assert.Error(t, err)
}

func TestBridgeScript(t *testing.T) {
	script := BridgeScript(`slide_"</script>`)

	assert.Contains(t, script, "window.StudioBridge = Object.freeze(")
	assert.Contains(t, script, `version: "v1"`)
	for _, capability := range Capabilities() {
		assert.Contains(t, script, string(capability)+": function")
	}
	assert.Contains(t, script, "pagehide")
	assert.NotContains(t, script, "</script>")
	assert.Contains(t, script, `var slideId = "slide_\"`)
}

func TestHostScript(t *testing.T) {
	script := HostScript("/api/")
	assert.Contains(t, script, `fetch("/api/slides/"`)
	assert.True(t, strings.Contains(script, `msg.version !== "v1"`))
}
