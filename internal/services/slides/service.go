package slides

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
	"github.com/ternarybob/magstudio/internal/services/studio"
)

// ErrOrderMismatch is returned when a reorder request does not name every slide exactly once
var ErrOrderMismatch = errors.New("order must list every slide id exactly once")

// ItemOp names a listicle edit applied to a stored slide
type ItemOp string

const (
	OpAdd      ItemOp = "add"
	OpRemove   ItemOp = "remove"
	OpMove     ItemOp = "move"
	OpUpdate   ItemOp = "update"
	OpSetTitle ItemOp = "setTitle"
	OpSetHero  ItemOp = "setHero"
)

// ItemEdit is one listicle edit request
type ItemEdit struct {
	Op        ItemOp              `json:"op" validate:"required,oneof=add remove move update setTitle setHero"`
	ItemID    string              `json:"itemId,omitempty"`
	Item      models.ListicleItem `json:"item" validate:"-"`
	Direction studio.Direction    `json:"direction,omitempty"`
	Title     string              `json:"title,omitempty"`
	HeroImage string              `json:"heroImage,omitempty"`
}

// Service owns slide persistence rules: ids, positions, listicle re-rendering and change events
type Service struct {
	store    interfaces.SlideStorage
	editor   *studio.Editor
	renderer *studio.Renderer
	events   interfaces.EventService
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewService creates a slide service. events may be nil.
func NewService(store interfaces.SlideStorage, renderer *studio.Renderer, events interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		store:    store,
		editor:   studio.NewEditor(renderer),
		renderer: renderer,
		events:   events,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns every slide in issue order
func (s *Service) List(ctx context.Context) ([]*models.EditorialSlide, error) {
	return s.store.ListAll(ctx)
}

// Get returns one slide or interfaces.ErrSlideNotFound
func (s *Service) Get(ctx context.Context, id string) (*models.EditorialSlide, error) {
	return s.store.Get(ctx, id)
}

// Create validates and stores a new slide at the end of the issue.
// Listicle slides have their content rendered from the item list.
func (s *Service) Create(ctx context.Context, slide *models.EditorialSlide) (*models.EditorialSlide, error) {
	if slide.ID == "" {
		slide.ID = common.NewSlideID()
	}
	if err := s.prepare(slide); err != nil {
		return nil, err
	}

	existing, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list slides: %w", err)
	}
	slide.Position = nextPosition(existing)

	if err := s.store.UpsertOne(ctx, slide); err != nil {
		return nil, fmt.Errorf("failed to store slide: %w", err)
	}

	s.logger.Info().
		Str("slide_id", slide.ID).
		Str("type", string(slide.Type)).
		Int("position", slide.Position).
		Msg("Slide created")

	s.changed(ctx, slide.ID)
	return slide, nil
}

// CreateMany stores curated slides after the existing ones in a single transaction
func (s *Service) CreateMany(ctx context.Context, slides []*models.EditorialSlide) error {
	if len(slides) == 0 {
		return nil
	}

	existing, err := s.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list slides: %w", err)
	}
	position := nextPosition(existing)

	ids := make([]string, 0, len(slides))
	for _, slide := range slides {
		if slide.ID == "" {
			slide.ID = common.NewSlideID()
		}
		if err := s.prepare(slide); err != nil {
			return err
		}
		slide.Position = position
		position++
		ids = append(ids, slide.ID)
	}

	if err := s.store.UpsertMany(ctx, slides); err != nil {
		return fmt.Errorf("failed to store slides: %w", err)
	}

	s.logger.Info().Int("count", len(slides)).Msg("Slides created")
	s.changed(ctx, ids...)
	return nil
}

// SaveGenerated stores a generation result as an internal slide.
// The request's endpoints are kept on the slide for the interaction relay.
func (s *Service) SaveGenerated(ctx context.Context, req *models.GenerationRequest, result *models.GenerationResult) (*models.EditorialSlide, error) {
	sources := req.Sources.Clean()
	slide := &models.EditorialSlide{
		Type:               models.SlideTypeInternal,
		Profile:            req.Profile,
		SyncEndpoint:       sources.SyncEndpoint,
		SubmissionEndpoint: sources.SubmissionEndpoint,
		GenerationResult:   *result,
	}
	return s.Create(ctx, slide)
}

// Update replaces the editable fields of a stored slide. Id, position and creation time are kept.
func (s *Service) Update(ctx context.Context, id string, update *models.EditorialSlide) (*models.EditorialSlide, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	update.ID = current.ID
	update.Position = current.Position
	update.CreatedAt = current.CreatedAt
	if err := s.prepare(update); err != nil {
		return nil, err
	}

	if err := s.store.UpsertOne(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to store slide: %w", err)
	}

	s.logger.Debug().Str("slide_id", id).Msg("Slide updated")
	s.changed(ctx, id)
	return update, nil
}

// Delete removes a slide
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteOne(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("slide_id", id).Msg("Slide deleted")
	s.changed(ctx, id)
	return nil
}

// Reorder assigns positions from the order of ids. Every stored slide must appear once.
func (s *Service) Reorder(ctx context.Context, ids []string) ([]*models.EditorialSlide, error) {
	existing, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list slides: %w", err)
	}
	if len(ids) != len(existing) {
		return nil, ErrOrderMismatch
	}

	byID := make(map[string]*models.EditorialSlide, len(existing))
	for _, slide := range existing {
		byID[slide.ID] = slide
	}

	ordered := make([]*models.EditorialSlide, 0, len(ids))
	for i, id := range ids {
		slide, ok := byID[id]
		if !ok {
			return nil, ErrOrderMismatch
		}
		delete(byID, id)
		slide.Position = i + 1
		ordered = append(ordered, slide)
	}

	if err := s.store.UpsertMany(ctx, ordered); err != nil {
		return nil, fmt.Errorf("failed to store order: %w", err)
	}

	s.changed(ctx, ids...)
	return ordered, nil
}

// EditItems applies a listicle edit to a stored slide and persists the re-rendered result
func (s *Service) EditItems(ctx context.Context, id string, edit *ItemEdit) (*models.EditorialSlide, error) {
	if err := s.validate.Struct(edit); err != nil {
		return nil, &studio.ValidationError{Err: err}
	}

	slide, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := &slide.GenerationResult
	var next *models.GenerationResult
	switch edit.Op {
	case OpAdd:
		next, err = s.editor.AddItem(current, edit.Item)
	case OpRemove:
		next, err = s.editor.RemoveItem(current, edit.ItemID)
	case OpMove:
		next, err = s.editor.MoveItem(current, edit.ItemID, edit.Direction)
	case OpUpdate:
		next, err = s.editor.UpdateItem(current, edit.Item)
	case OpSetTitle:
		next, err = s.editor.SetTitle(current, edit.Title)
	case OpSetHero:
		next, err = s.editor.SetHeroImage(current, edit.HeroImage)
	}
	if err != nil {
		return nil, err
	}

	slide.GenerationResult = *next
	if err := s.store.UpsertOne(ctx, slide); err != nil {
		return nil, fmt.Errorf("failed to store slide: %w", err)
	}

	s.logger.Debug().
		Str("slide_id", id).
		Str("op", string(edit.Op)).
		Msg("Listicle edited")

	s.changed(ctx, id)
	return slide, nil
}

// prepare validates a slide and renders listicle content from its items
func (s *Service) prepare(slide *models.EditorialSlide) error {
	slide.URL = strings.TrimSpace(slide.URL)
	if err := s.validate.Struct(slide); err != nil {
		return &studio.ValidationError{Err: err}
	}

	if slide.ListicleData != nil {
		content, err := s.renderer.Render(slide.Title, slide.ListicleData)
		if err != nil {
			return err
		}
		slide.Content = content
	}
	return nil
}

func (s *Service) changed(ctx context.Context, ids ...string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventSlidesChanged,
		Payload: ids,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to publish slides changed event")
	}
}

func nextPosition(existing []*models.EditorialSlide) int {
	position := 0
	for _, slide := range existing {
		if slide.Position > position {
			position = slide.Position
		}
	}
	return position + 1
}
