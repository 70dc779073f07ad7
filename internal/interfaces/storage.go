// -----------------------------------------------------------------------
// Storage interfaces for the magazine studio
// -----------------------------------------------------------------------

package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/magstudio/internal/models"
)

// ErrSlideNotFound is returned when a slide id has no record
var ErrSlideNotFound = errors.New("slide not found")

// SlideStorage persists editorial slides. Each write is an atomic upsert keyed by id.
type SlideStorage interface {
	// ListAll returns every slide ordered by Position, then CreatedAt
	ListAll(ctx context.Context) ([]*models.EditorialSlide, error)

	// Get returns one slide or ErrSlideNotFound
	Get(ctx context.Context, id string) (*models.EditorialSlide, error)

	// UpsertOne inserts or replaces a single slide
	UpsertOne(ctx context.Context, slide *models.EditorialSlide) error

	// UpsertMany writes all slides in one transaction; either all are stored or none
	UpsertMany(ctx context.Context, slides []*models.EditorialSlide) error

	// DeleteOne removes a slide, returns ErrSlideNotFound if absent
	DeleteOne(ctx context.Context, id string) error
}

// IssueStorage persists the singleton issue settings
type IssueStorage interface {
	// Get returns the saved issue, or the default issue when none was saved
	Get(ctx context.Context) (*models.IssueSettings, error)
	Save(ctx context.Context, issue *models.IssueSettings) error
}

// AuditStorage records generation outcomes
type AuditStorage interface {
	Record(ctx context.Context, audit *models.GenerationAudit) error
	// Recent returns up to limit records, newest first
	Recent(ctx context.Context, limit int) ([]*models.GenerationAudit, error)
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	SlideStorage() SlideStorage
	IssueStorage() IssueStorage
	AuditStorage() AuditStorage
	KeyValueStorage() KeyValueStorage

	// LoadEnvFile imports API keys from a .env file into key/value storage
	LoadEnvFile(ctx context.Context, path string) error

	DB() interface{}
	Close() error
}
