package studio

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

// GenerationOutcome is a finished generation together with its bookkeeping
type GenerationOutcome struct {
	SessionID     string                   `json:"sessionId,omitempty"`
	Token         uint64                   `json:"token"`
	Profile       models.Profile           `json:"profile"`
	Model         string                   `json:"model"`
	Result        *models.GenerationResult `json:"result"`
	AudioDegraded bool                     `json:"audioDegraded,omitempty"`
	Duration      time.Duration            `json:"duration"`
}

// Service runs the generation pipeline:
// resolve profile, aggregate context, build prompt, invoke, post-process and narrate.
// It never touches slide storage; callers persist finished results.
type Service struct {
	registry *Registry
	invoker  *Invoker
	renderer *Renderer
	audio    *AudioAdapter
	excerpts *ExcerptFetcher
	sessions *Sessions
	audits   interfaces.AuditStorage
	events   interfaces.EventService
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewService wires the pipeline. excerpts, audits and events may be nil.
func NewService(
	registry *Registry,
	invoker *Invoker,
	renderer *Renderer,
	audio *AudioAdapter,
	excerpts *ExcerptFetcher,
	audits interfaces.AuditStorage,
	events interfaces.EventService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		registry: registry,
		invoker:  invoker,
		renderer: renderer,
		audio:    audio,
		excerpts: excerpts,
		sessions: NewSessions(),
		audits:   audits,
		events:   events,
		validate: validator.New(),
		logger:   logger,
	}
}

// Registry returns the profile registry
func (s *Service) Registry() *Registry { return s.registry }

// Renderer returns the listicle renderer
func (s *Service) Renderer() *Renderer { return s.renderer }

// Sessions returns the request token table
func (s *Service) Sessions() *Sessions { return s.sessions }

// Generate runs one request through the pipeline. A request superseded by a
// newer one in the same session returns *StaleRequestError instead of its result.
func (s *Service) Generate(ctx context.Context, sessionID string, req *models.GenerationRequest) (*GenerationOutcome, error) {
	start := time.Now()
	token := s.sessions.Begin(sessionID)
	logger := s.logger.WithCorrelationId(fmt.Sprintf("%s#%d", sessionID, token))

	req.Sources = req.Sources.Clean()

	var model string
	fail := func(err error) (*GenerationOutcome, error) {
		s.publishState(ctx, sessionID, token, req.Profile, models.StateFailed, err, false)
		s.recordAudit(sessionID, req, model, err, time.Since(start))
		logger.Error().
			Str("profile", string(req.Profile)).
			Str("kind", ErrorKind(err)).
			Err(err).
			Msg("Generation failed")
		return nil, err
	}

	if err := s.validate.Struct(req); err != nil {
		return fail(&ValidationError{Err: err})
	}

	descriptor, err := s.registry.Resolve(req.Profile)
	if err != nil {
		return fail(err)
	}
	model = descriptor.Model

	logger.Info().
		Str("profile", string(req.Profile)).
		Str("model", model).
		Str("topic", req.Topic).
		Msg("Generation started")

	s.publishState(ctx, sessionID, token, req.Profile, models.StateContentGenerating, nil, false)

	sourceContext := BuildContext(req.Sources)
	if s.excerpts != nil && len(req.Sources.WebSources) > 0 {
		if excerpts := s.excerpts.Fetch(ctx, req.Sources.WebSources); excerpts != "" {
			sourceContext += "\n\nREFERENCE EXCERPTS:\n" + excerpts
		}
	}

	prompt := descriptor.BuildPrompt(req, sourceContext)

	parsed, err := s.invoker.Invoke(ctx, model, prompt, descriptor.Schema, descriptor.Grounded)
	if err != nil {
		return fail(err)
	}

	result, err := descriptor.PostProcess(parsed, req, s.renderer)
	if err != nil {
		return fail(err)
	}

	if descriptor.ListShaped && result.ListicleData != nil {
		count := len(result.ListicleData.Items)
		if count < descriptor.Template.MinItems || (descriptor.Template.MaxItems > 0 && count > descriptor.Template.MaxItems) {
			logger.Warn().
				Int("items", count).
				Int("min_items", descriptor.Template.MinItems).
				Int("max_items", descriptor.Template.MaxItems).
				Msg("Item count outside the profile target range")
		}
	}

	degraded := false
	if req.Profile == models.ProfilePodcast {
		s.publishState(ctx, sessionID, token, req.Profile, models.StateAudioGenerating, nil, false)
		var audio string
		audio, degraded = s.audio.Narrate(ctx, req, result)
		result.AudioData = models.StringPtr(audio)
	}

	elapsed := time.Since(start)
	s.publishState(ctx, sessionID, token, req.Profile, models.StateComplete, nil, degraded)
	s.recordAudit(sessionID, req, model, nil, elapsed)

	logger.Info().
		Str("profile", string(req.Profile)).
		Dur("elapsed", elapsed).
		Bool("audio_degraded", degraded).
		Msg("Generation complete")

	if !s.sessions.IsCurrent(sessionID, token) {
		logger.Info().Msg("Discarding result superseded by a newer submission")
		return nil, &StaleRequestError{SessionID: sessionID, Token: token}
	}

	return &GenerationOutcome{
		SessionID:     sessionID,
		Token:         token,
		Profile:       req.Profile,
		Model:         model,
		Result:        result,
		AudioDegraded: degraded,
		Duration:      elapsed,
	}, nil
}

// RenderListicle renders caller-supplied listicle data into a complete result
func (s *Service) RenderListicle(title string, data *models.ListicleData) (*models.GenerationResult, error) {
	data = data.Clone()
	content, err := s.renderer.Render(title, data)
	if err != nil {
		return nil, err
	}
	return &models.GenerationResult{
		Title:        title,
		Content:      content,
		ListicleData: data,
	}, nil
}

func (s *Service) publishState(ctx context.Context, sessionID string, token uint64, profile models.Profile, state models.GenerationState, cause error, degraded bool) {
	if s.events == nil {
		return
	}
	payload := models.GenerationStateEvent{
		SessionID: sessionID,
		Token:     token,
		Profile:   profile,
		State:     state,
		Degraded:  degraded,
		Timestamp: time.Now(),
	}
	if cause != nil {
		payload.Error = cause.Error()
	}
	// Sync so subscribers observe transitions in order
	if err := s.events.PublishSync(ctx, interfaces.Event{Type: interfaces.EventGenerationState, Payload: payload}); err != nil {
		s.logger.Warn().Err(err).Str("state", string(state)).Msg("Failed to publish generation state")
	}
}

func (s *Service) recordAudit(sessionID string, req *models.GenerationRequest, model string, cause error, elapsed time.Duration) {
	if s.audits == nil {
		return
	}
	audit := &models.GenerationAudit{
		ID:         common.NewAuditID(),
		SessionID:  sessionID,
		Profile:    req.Profile,
		Model:      model,
		Topic:      req.Topic,
		Success:    cause == nil,
		DurationMs: elapsed.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if cause != nil {
		audit.ErrorKind = ErrorKind(cause)
		audit.Error = cause.Error()
	}

	common.SafeGo(s.logger, "generation-audit", func() {
		if err := s.audits.Record(context.Background(), audit); err != nil {
			s.logger.Warn().Err(err).Str("audit_id", audit.ID).Msg("Failed to record generation audit")
		}
	})
}
