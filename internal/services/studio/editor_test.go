package studio

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/magstudio/internal/models"
)

func editableResult(t *testing.T, r *Renderer) *models.GenerationResult {
	t.Helper()
	data := sampleData()
	content, err := r.Render("Edit Me", data)
	require.NoError(t, err)
	return &models.GenerationResult{Title: "Edit Me", Category: "Tech", Content: content, ListicleData: data}
}

func itemIDs(result *models.GenerationResult) []string {
	ids := make([]string, len(result.ListicleData.Items))
	for i, item := range result.ListicleData.Items {
		ids[i] = item.ID
	}
	return ids
}

func TestEditor_AddItem(t *testing.T) {
	r := newTestRenderer(t)
	editor := NewEditor(r)
	original := editableResult(t, r)

	updated, err := editor.AddItem(original, models.ListicleItem{Title: "Fourth"})
	require.NoError(t, err)

	require.Len(t, updated.ListicleData.Items, 4)
	assert.True(t, strings.HasPrefix(updated.ListicleData.Items[3].ID, "item_"))
	assert.Equal(t, 4, countCards(t, updated.Content))
	assert.NoError(t, r.Verify(updated))

	// Input untouched
	assert.Len(t, original.ListicleData.Items, 3)
	assert.Equal(t, 3, countCards(t, original.Content))
	assert.Equal(t, "Tech", updated.Category)
}

func TestEditor_RemoveItem(t *testing.T) {
	r := newTestRenderer(t)
	editor := NewEditor(r)

	updated, err := editor.RemoveItem(editableResult(t, r), "two")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three"}, itemIDs(updated))
	assert.Equal(t, 2, countCards(t, updated.Content))

	_, err = editor.RemoveItem(updated, "two")
	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.Equal(t, KindItemNotFound, ErrorKind(err))
}

func TestEditor_MoveItem(t *testing.T) {
	r := newTestRenderer(t)
	editor := NewEditor(r)
	original := editableResult(t, r)

	up, err := editor.MoveItem(original, "three", DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three", "two"}, itemIDs(up))
	assert.Equal(t, []string{"one", "two", "three"}, itemIDs(original))
	assert.NoError(t, r.Verify(up))

	top, err := editor.MoveItem(original, "one", DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, itemIDs(top))

	bottom, err := editor.MoveItem(original, "three", DirectionDown)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, itemIDs(bottom))

	_, err = editor.MoveItem(original, "one", "sideways")
	var renderErr *RenderInputError
	assert.True(t, errors.As(err, &renderErr))
}

func TestEditor_UpdateItem(t *testing.T) {
	r := newTestRenderer(t)
	editor := NewEditor(r)

	updated, err := editor.UpdateItem(editableResult(t, r), models.ListicleItem{ID: "two", Title: "Renamed", Description: "New"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.ListicleData.Items[1].Title)
	assert.Contains(t, updated.Content, "Renamed")

	_, err = editor.UpdateItem(updated, models.ListicleItem{ID: "missing"})
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestEditor_SetTitleAndHero(t *testing.T) {
	r := newTestRenderer(t)
	editor := NewEditor(r)

	titled, err := editor.SetTitle(editableResult(t, r), "New Title")
	require.NoError(t, err)
	assert.Equal(t, "New Title", titled.Title)
	assert.Contains(t, titled.Content, "New Title")
	assert.NoError(t, r.Verify(titled))

	hero, err := editor.SetHeroImage(titled, "https://example.com/new.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/new.jpg", hero.ListicleData.HeroImage)
	assert.Contains(t, hero.Content, "https://example.com/new.jpg")

	cleared, err := editor.SetHeroImage(hero, "")
	require.NoError(t, err)
	assert.Contains(t, cleared.Content, PlaceholderHeroImage[:40])

	plain, err := editor.SetTitle(&models.GenerationResult{Title: "Old", Content: "<p>body</p>"}, "Fresh")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", plain.Title)
	assert.Equal(t, "<p>body</p>", plain.Content)
}

func TestEditor_RequiresListicleData(t *testing.T) {
	editor := NewEditor(newTestRenderer(t))

	_, err := editor.AddItem(&models.GenerationResult{Content: "<p>x</p>"}, models.ListicleItem{ID: "a"})
	assert.True(t, errors.Is(err, ErrNotListShaped))

	_, err = editor.SetHeroImage(nil, "https://x")
	assert.True(t, errors.Is(err, ErrNotListShaped))
}

func TestEditor_AddDuplicateIDRejected(t *testing.T) {
	r := newTestRenderer(t)
	_, err := NewEditor(r).AddItem(editableResult(t, r), models.ListicleItem{ID: "one"})
	var renderErr *RenderInputError
	assert.True(t, errors.As(err, &renderErr))
}
