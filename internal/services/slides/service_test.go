package slides

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/models"
	"github.com/ternarybob/magstudio/internal/services/studio"
	"github.com/ternarybob/magstudio/internal/storage/badger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := arbor.NewLogger()
	manager, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	renderer, err := studio.NewRenderer(42)
	require.NoError(t, err)
	return NewService(manager.SlideStorage(), renderer, nil, logger)
}

func listicleSlide() *models.EditorialSlide {
	return &models.EditorialSlide{
		Type: models.SlideTypeInternal,
		GenerationResult: models.GenerationResult{
			Title:       "Best Chairs",
			Description: "Seating",
			Category:    "Design",
			AccentColor: "#222222",
			ListicleData: &models.ListicleData{Items: []models.ListicleItem{
				{ID: "a", Title: "Alpha", Description: "first"},
				{ID: "b", Title: "Beta", Description: "second"},
			}},
		},
	}
}

func TestCreate_AssignsIDAndAppendsPosition(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	first, err := svc.Create(ctx, &models.EditorialSlide{Type: models.SlideTypeExternal, URL: "https://example.com/a"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, listicleSlide())
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, second.Position)
	assert.Contains(t, second.Content, "Alpha")

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
}

func TestCreate_ExternalRequiresURL(t *testing.T) {
	_, err := newTestService(t).Create(context.Background(), &models.EditorialSlide{Type: models.SlideTypeExternal})
	require.Error(t, err)
	assert.Equal(t, studio.KindValidation, studio.ErrorKind(err))
}

func TestCreate_RejectsDuplicateItemIDs(t *testing.T) {
	slide := listicleSlide()
	slide.ListicleData.Items[1].ID = "a"

	_, err := newTestService(t).Create(context.Background(), slide)
	require.Error(t, err)
	assert.Equal(t, studio.KindRenderInput, studio.ErrorKind(err))
}

func TestReorder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var ids []string
	for _, url := range []string{"https://a.example", "https://b.example", "https://c.example"} {
		slide, err := svc.Create(ctx, &models.EditorialSlide{Type: models.SlideTypeExternal, URL: url})
		require.NoError(t, err)
		ids = append(ids, slide.ID)
	}

	_, err := svc.Reorder(ctx, []string{ids[2], ids[0], ids[1]})
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, []string{all[0].ID, all[1].ID, all[2].ID})

	_, err = svc.Reorder(ctx, []string{ids[0], ids[0], ids[1]})
	assert.ErrorIs(t, err, ErrOrderMismatch)

	_, err = svc.Reorder(ctx, ids[:2])
	assert.ErrorIs(t, err, ErrOrderMismatch)
}

func TestEditItems(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	slide, err := svc.Create(ctx, listicleSlide())
	require.NoError(t, err)

	updated, err := svc.EditItems(ctx, slide.ID, &ItemEdit{Op: OpMove, ItemID: "b", Direction: studio.DirectionUp})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.ListicleData.Items[0].ID)

	updated, err = svc.EditItems(ctx, slide.ID, &ItemEdit{Op: OpAdd, Item: models.ListicleItem{Title: "Gamma", Description: "third"}})
	require.NoError(t, err)
	require.Len(t, updated.ListicleData.Items, 3)
	assert.Contains(t, updated.Content, "Gamma")

	stored, err := svc.Get(ctx, slide.ID)
	require.NoError(t, err)
	assert.Len(t, stored.ListicleData.Items, 3)

	_, err = svc.EditItems(ctx, slide.ID, &ItemEdit{Op: OpRemove, ItemID: "missing"})
	assert.True(t, errors.Is(err, studio.ErrItemNotFound))

	_, err = svc.EditItems(ctx, slide.ID, &ItemEdit{Op: "explode"})
	assert.Equal(t, studio.KindValidation, studio.ErrorKind(err))
}

func TestEditItems_NonListSlide(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	slide, err := svc.Create(ctx, &models.EditorialSlide{Type: models.SlideTypeExternal, URL: "https://example.com"})
	require.NoError(t, err)

	_, err = svc.EditItems(ctx, slide.ID, &ItemEdit{Op: OpSetHero, HeroImage: "https://img.example/h.jpg"})
	assert.ErrorIs(t, err, studio.ErrNotListShaped)

	renamed, err := svc.EditItems(ctx, slide.ID, &ItemEdit{Op: OpSetTitle, Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", renamed.Title)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	slide, err := svc.Create(ctx, &models.EditorialSlide{Type: models.SlideTypeExternal, URL: "https://example.com"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, slide.ID, &models.EditorialSlide{
		Type:             models.SlideTypeExternal,
		URL:              "https://example.com/new",
		GenerationResult: models.GenerationResult{Title: "Renamed"},
	})
	require.NoError(t, err)
	assert.Equal(t, slide.Position, updated.Position)
	assert.Equal(t, "Renamed", updated.Title)

	require.NoError(t, svc.Delete(ctx, slide.ID))
	_, err = svc.Get(ctx, slide.ID)
	assert.ErrorIs(t, err, interfaces.ErrSlideNotFound)

	_, err = svc.Update(ctx, slide.ID, updated)
	assert.ErrorIs(t, err, interfaces.ErrSlideNotFound)
}

func TestSaveGenerated_KeepsEndpoints(t *testing.T) {
	req := &models.GenerationRequest{
		Profile: models.ProfileBlog,
		Topic:   "t",
		Sources: models.SourceBundle{SyncEndpoint: " https://hooks.example/sync "},
	}
	slide, err := newTestService(t).SaveGenerated(context.Background(), req, &models.GenerationResult{Title: "Post", Content: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, models.ProfileBlog, slide.Profile)
	assert.Equal(t, "https://hooks.example/sync", slide.SyncEndpoint)
	assert.Equal(t, models.SlideTypeInternal, slide.Type)
}
