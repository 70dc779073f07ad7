package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

// IssueStorage implements the IssueStorage interface for Badger
type IssueStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewIssueStorage creates a new IssueStorage instance
func NewIssueStorage(db *BadgerDB, logger arbor.ILogger) interfaces.IssueStorage {
	return &IssueStorage{
		db:     db,
		logger: logger,
	}
}

// Get returns the saved issue, or the default issue when none was saved
func (s *IssueStorage) Get(ctx context.Context) (*models.IssueSettings, error) {
	var issue models.IssueSettings
	err := s.db.Store().Get(models.CurrentIssueID, &issue)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return models.DefaultIssueSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue settings: %w", err)
	}
	return &issue, nil
}

// Save replaces the issue settings
func (s *IssueStorage) Save(ctx context.Context, issue *models.IssueSettings) error {
	issue.ID = models.CurrentIssueID
	issue.UpdatedAt = time.Now()

	if err := s.db.Store().Upsert(models.CurrentIssueID, issue); err != nil {
		return fmt.Errorf("failed to save issue settings: %w", err)
	}

	s.logger.Debug().Str("name", issue.Name).Str("layout", string(issue.Cover.LayoutID)).Msg("Issue settings saved")
	return nil
}
