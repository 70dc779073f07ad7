package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
)

func TestNewStorageManager_RejectsUnknownType(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Storage.Type = "sqlite"

	_, err := NewStorageManager(arbor.NewLogger(), config)
	assert.Error(t, err)
}

func TestNewStorageManager_OpensBadger(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Storage.Badger.Path = t.TempDir()

	manager, err := NewStorageManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	defer manager.Close()

	assert.NotNil(t, manager.SlideStorage())
	assert.NotNil(t, manager.IssueStorage())
	assert.NotNil(t, manager.AuditStorage())
	assert.NotNil(t, manager.KeyValueStorage())
	assert.NotNil(t, manager.DB())
}
