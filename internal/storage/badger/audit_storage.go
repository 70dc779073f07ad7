package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

const defaultAuditLimit = 50

// AuditStorage implements the AuditStorage interface for Badger
type AuditStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAuditStorage creates a new AuditStorage instance
func NewAuditStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AuditStorage {
	return &AuditStorage{
		db:     db,
		logger: logger,
	}
}

// Record stores one generation audit
func (s *AuditStorage) Record(ctx context.Context, audit *models.GenerationAudit) error {
	if audit == nil || audit.ID == "" {
		return fmt.Errorf("audit id is required")
	}
	if err := s.db.Store().Upsert(audit.ID, audit); err != nil {
		return fmt.Errorf("failed to record audit: %w", err)
	}
	return nil
}

// Recent returns up to limit audits, newest first
func (s *AuditStorage) Recent(ctx context.Context, limit int) ([]*models.GenerationAudit, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	var audits []models.GenerationAudit
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse().Limit(limit)
	if err := s.db.Store().Find(&audits, query); err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}

	result := make([]*models.GenerationAudit, len(audits))
	for i := range audits {
		result[i] = &audits[i]
	}
	return result, nil
}
