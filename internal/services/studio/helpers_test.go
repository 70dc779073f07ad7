package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
	"github.com/ternarybob/magstudio/internal/services/llm"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateContent(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error) {
	args := m.Called(ctx, request)
	resp, _ := args.Get(0).(*llm.ContentResponse)
	return resp, args.Error(1)
}

type mockSynthesizer struct {
	mock.Mock
}

func (m *mockSynthesizer) SynthesizeSpeech(ctx context.Context, model, text, voice string) ([]byte, error) {
	args := m.Called(ctx, model, text, voice)
	pcm, _ := args.Get(0).([]byte)
	return pcm, args.Error(1)
}

type mockAuditStorage struct {
	mock.Mock
}

func (m *mockAuditStorage) Record(ctx context.Context, audit *models.GenerationAudit) error {
	return m.Called(ctx, audit).Error(0)
}

func (m *mockAuditStorage) Recent(ctx context.Context, limit int) ([]*models.GenerationAudit, error) {
	args := m.Called(ctx, limit)
	audits, _ := args.Get(0).([]*models.GenerationAudit)
	return audits, args.Error(1)
}

// funcGenerator adapts a function to ContentGenerator
type funcGenerator func(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error)

func (f funcGenerator) GenerateContent(ctx context.Context, request *llm.ContentRequest) (*llm.ContentResponse, error) {
	return f(ctx, request)
}

// recordingEvents keeps generation state transitions in publish order
type recordingEvents struct {
	mu     sync.Mutex
	states []models.GenerationStateEvent
}

func (r *recordingEvents) Subscribe(interfaces.EventType, interfaces.EventHandler) error {
	return nil
}

func (r *recordingEvents) Unsubscribe(interfaces.EventType, interfaces.EventHandler) error {
	return nil
}

func (r *recordingEvents) Close() error {
	return nil
}

func (r *recordingEvents) Publish(ctx context.Context, event interfaces.Event) error {
	return r.PublishSync(ctx, event)
}

func (r *recordingEvents) PublishSync(_ context.Context, event interfaces.Event) error {
	if state, ok := event.Payload.(models.GenerationStateEvent); ok {
		r.mu.Lock()
		r.states = append(r.states, state)
		r.mu.Unlock()
	}
	return nil
}

func (r *recordingEvents) sequence() []models.GenerationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.GenerationState, len(r.states))
	for i, s := range r.states {
		out[i] = s.State
	}
	return out
}

func testLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func testConfig() *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.Studio.TemplatesDir = ""
	return cfg
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(42)
	require.NoError(t, err)
	return r
}

func newTestService(t *testing.T, gen ContentGenerator, synth SpeechSynthesizer, audits interfaces.AuditStorage) (*Service, *recordingEvents) {
	t.Helper()
	cfg := testConfig()
	logger := testLogger()

	registry, err := NewRegistry(&cfg.Studio, &cfg.Gemini, logger)
	require.NoError(t, err)

	events := &recordingEvents{}
	svc := NewService(
		registry,
		NewInvoker(gen, logger),
		newTestRenderer(t),
		NewAudioAdapter(synth, cfg.Gemini.SpeechModel, logger),
		nil,
		audits,
		events,
		logger,
	)
	return svc, events
}

func textResponse(s string) *llm.ContentResponse {
	return &llm.ContentResponse{Text: s, Provider: llm.ProviderGemini}
}

func listicleJSON(t *testing.T, n int) string {
	t.Helper()
	items := make([]map[string]interface{}, n)
	for i := range items {
		items[i] = map[string]interface{}{
			"id":          fmt.Sprintf("item-%d", i+1),
			"title":       fmt.Sprintf("Item %d", i+1),
			"description": "A short description of the item.",
			"imageUrl":    fmt.Sprintf("https://img.example.com/%d.jpg", i+1),
			"link":        fmt.Sprintf("https://example.com/%d", i+1),
		}
	}
	payload := map[string]interface{}{
		"title":       "Top Tools",
		"description": "The best tools of the year.",
		"category":    "Tech",
		"accentColor": "#ff3b00",
		"listicleData": map[string]interface{}{
			"heroImage": "https://model.example.com/hero.jpg",
			"items":     items,
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(raw)
}

func pageJSON(t *testing.T, content string) string {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{
		"title":       "Episode One",
		"description": "Two sentences about the show. Read aloud.",
		"category":    "Audio",
		"accentColor": "#00aaff",
		"content":     content,
	})
	require.NoError(t, err)
	return string(raw)
}
