package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager, err := NewManager(arbor.NewLogger(), &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func testSlide(id string, position int) *models.EditorialSlide {
	return &models.EditorialSlide{
		ID:       id,
		Type:     models.SlideTypeInternal,
		Position: position,
		GenerationResult: models.GenerationResult{
			Title:       "Slide " + id,
			Description: "desc",
			Category:    "Design",
			AccentColor: "#ff0000",
			Content:     "<div></div>",
		},
	}
}

func TestSlideStorage_UpsertListDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).SlideStorage()

	require.NoError(t, store.UpsertOne(ctx, testSlide("b", 2)))
	require.NoError(t, store.UpsertOne(ctx, testSlide("a", 1)))
	require.NoError(t, store.UpsertOne(ctx, testSlide("c", 3)))

	slides, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{slides[0].ID, slides[1].ID, slides[2].ID})
	assert.False(t, slides[0].CreatedAt.IsZero())

	updated := testSlide("a", 1)
	updated.Title = "Renamed"
	require.NoError(t, store.UpsertOne(ctx, updated))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	require.NoError(t, store.DeleteOne(ctx, "b"))
	assert.ErrorIs(t, store.DeleteOne(ctx, "b"), interfaces.ErrSlideNotFound)

	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, interfaces.ErrSlideNotFound)

	slides, err = store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, slides, 2)
}

func TestSlideStorage_UpsertManyReorders(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).SlideStorage()

	first, second := testSlide("first", 0), testSlide("second", 1)
	require.NoError(t, store.UpsertMany(ctx, []*models.EditorialSlide{first, second}))

	first.Position, second.Position = 1, 0
	require.NoError(t, store.UpsertMany(ctx, []*models.EditorialSlide{first, second}))

	slides, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "second", slides[0].ID)
	assert.Equal(t, "first", slides[1].ID)
}

func TestSlideStorage_UpsertManyRejectsMissingID(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).SlideStorage()

	err := store.UpsertMany(ctx, []*models.EditorialSlide{testSlide("ok", 0), testSlide("", 1)})
	require.Error(t, err)

	slides, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, slides, "no slide is written when the batch is invalid")
}

func TestSlideStorage_PreservesListicleAndEmptyAudio(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).SlideStorage()

	slide := testSlide("pod", 0)
	slide.AudioData = models.StringPtr("")
	slide.ListicleData = &models.ListicleData{
		HeroImage: "https://img.example/hero.jpg",
		Items:     []models.ListicleItem{{ID: "i1", Title: "One", RawBlock: "<b>raw</b>"}},
	}
	require.NoError(t, store.UpsertOne(ctx, slide))

	got, err := store.Get(ctx, "pod")
	require.NoError(t, err)
	require.NotNil(t, got.AudioData)
	assert.Equal(t, "", *got.AudioData)
	require.NotNil(t, got.ListicleData)
	assert.Equal(t, "https://img.example/hero.jpg", got.ListicleData.HeroImage)
	assert.Equal(t, models.TrustedFragment("<b>raw</b>"), got.ListicleData.Items[0].RawBlock)
}

func TestIssueStorage_DefaultsThenSaves(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).IssueStorage()

	issue, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.CoverLayoutMinimal, issue.Cover.LayoutID)

	issue.Name = "Autumn Edition"
	issue.Cover.LayoutID = models.CoverLayoutBrutalist
	require.NoError(t, store.Save(ctx, issue))

	saved, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Autumn Edition", saved.Name)
	assert.Equal(t, models.CoverLayoutBrutalist, saved.Cover.LayoutID)
	assert.Equal(t, models.CurrentIssueID, saved.ID)
}

func TestAuditStorage_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).AuditStorage()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"audit_1", "audit_2", "audit_3"} {
		require.NoError(t, store.Record(ctx, &models.GenerationAudit{
			ID:        id,
			Profile:   models.ProfileBlog,
			Success:   true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	audits, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, "audit_3", audits[0].ID)
	assert.Equal(t, "audit_2", audits[1].ID)

	assert.Error(t, store.Record(ctx, &models.GenerationAudit{}))
}

func TestKVStorage_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	kv := newTestManager(t).KeyValueStorage()

	require.NoError(t, kv.Set(ctx, "Gemini_API_Key", "secret", "test"))

	value, err := kv.Get(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret", value)

	pairs, err := kv.List(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "gemini_api_key", pairs[0].Key)

	require.NoError(t, kv.Delete(ctx, "GEMINI_API_KEY"))
	_, err = kv.Get(ctx, "gemini_api_key")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
	assert.ErrorIs(t, kv.Delete(ctx, "gemini_api_key"), interfaces.ErrKeyNotFound)
}

func TestLoadEnvFile_MapsKnownKeys(t *testing.T) {
	ctx := context.Background()
	manager := newTestManager(t)

	envPath := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nGEMINI_API_KEY=\"g-key\"\nANTHROPIC_API_KEY='a-key'\nBROKEN LINE\nEMPTY=\nCUSTOM=value\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0600))

	require.NoError(t, manager.LoadEnvFile(ctx, envPath))

	kv := manager.KeyValueStorage()
	value, err := kv.Get(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "g-key", value)

	value, err = kv.Get(ctx, "anthropic_api_key")
	require.NoError(t, err)
	assert.Equal(t, "a-key", value)

	value, err = kv.Get(ctx, "custom")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	_, err = kv.Get(ctx, "empty")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	assert.NoError(t, manager.LoadEnvFile(ctx, filepath.Join(t.TempDir(), "missing.env")))
}
