package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	slide  interfaces.SlideStorage
	issue  interfaces.IssueStorage
	audit  interfaces.AuditStorage
	kv     *KVStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := newManager(db, logger)

	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

func newManager(db *BadgerDB, logger arbor.ILogger) *Manager {
	return &Manager{
		db:     db,
		slide:  NewSlideStorage(db, logger),
		issue:  NewIssueStorage(db, logger),
		audit:  NewAuditStorage(db, logger),
		kv:     NewKVStorage(db, logger),
		logger: logger,
	}
}

// SlideStorage returns the Slide storage interface
func (m *Manager) SlideStorage() interfaces.SlideStorage {
	return m.slide
}

// IssueStorage returns the Issue storage interface
func (m *Manager) IssueStorage() interfaces.IssueStorage {
	return m.issue
}

// AuditStorage returns the Audit storage interface
func (m *Manager) AuditStorage() interfaces.AuditStorage {
	return m.audit
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// DB returns the underlying database connection
func (m *Manager) DB() interface{} {
	if m.db != nil {
		return m.db.Store()
	}
	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
