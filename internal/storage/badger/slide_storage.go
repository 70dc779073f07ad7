package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

// SlideStorage implements the SlideStorage interface for Badger
type SlideStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSlideStorage creates a new SlideStorage instance
func NewSlideStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SlideStorage {
	return &SlideStorage{
		db:     db,
		logger: logger,
	}
}

// ListAll returns every slide ordered by Position, then CreatedAt
func (s *SlideStorage) ListAll(ctx context.Context) ([]*models.EditorialSlide, error) {
	var slides []models.EditorialSlide
	if err := s.db.Store().Find(&slides, badgerhold.Where("ID").Ne("").SortBy("Position", "CreatedAt")); err != nil {
		return nil, fmt.Errorf("failed to list slides: %w", err)
	}

	result := make([]*models.EditorialSlide, len(slides))
	for i := range slides {
		result[i] = &slides[i]
	}
	return result, nil
}

// Get returns one slide by id
func (s *SlideStorage) Get(ctx context.Context, id string) (*models.EditorialSlide, error) {
	var slide models.EditorialSlide
	err := s.db.Store().Get(id, &slide)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrSlideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slide %s: %w", id, err)
	}
	return &slide, nil
}

// UpsertOne inserts or replaces a single slide
func (s *SlideStorage) UpsertOne(ctx context.Context, slide *models.EditorialSlide) error {
	if slide == nil || slide.ID == "" {
		return fmt.Errorf("slide id is required")
	}
	stamp(slide)

	if err := s.db.Store().Upsert(slide.ID, slide); err != nil {
		return fmt.Errorf("failed to upsert slide %s: %w", slide.ID, err)
	}

	s.logger.Debug().Str("slide_id", slide.ID).Str("type", string(slide.Type)).Msg("Slide stored")
	return nil
}

// UpsertMany writes all slides in a single badger transaction
func (s *SlideStorage) UpsertMany(ctx context.Context, slides []*models.EditorialSlide) error {
	for _, slide := range slides {
		if slide == nil || slide.ID == "" {
			return fmt.Errorf("slide id is required")
		}
	}

	store := s.db.Store()
	err := store.Badger().Update(func(tx *badger.Txn) error {
		for _, slide := range slides {
			stamp(slide)
			if err := store.TxUpsert(tx, slide.ID, slide); err != nil {
				return fmt.Errorf("slide %s: %w", slide.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert slides: %w", err)
	}

	s.logger.Debug().Int("count", len(slides)).Msg("Slides stored")
	return nil
}

// DeleteOne removes a slide by id
func (s *SlideStorage) DeleteOne(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.EditorialSlide{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return interfaces.ErrSlideNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete slide %s: %w", id, err)
	}

	s.logger.Debug().Str("slide_id", id).Msg("Slide deleted")
	return nil
}

// stamp sets CreatedAt on first write and UpdatedAt on every write
func stamp(slide *models.EditorialSlide) {
	now := time.Now()
	if slide.CreatedAt.IsZero() {
		slide.CreatedAt = now
	}
	slide.UpdatedAt = now
}
