package studio

import (
	"fmt"
	"strings"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/models"
)

// Direction moves an item one place within the list
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Editor applies structural edits to list-shaped results. Every edit returns
// a new result whose content is re-rendered; the input is never modified.
type Editor struct {
	renderer *Renderer
}

// NewEditor creates an editor that re-renders with r
func NewEditor(r *Renderer) *Editor {
	return &Editor{renderer: r}
}

// AddItem appends an item, assigning an id when it has none
func (e *Editor) AddItem(result *models.GenerationResult, item models.ListicleItem) (*models.GenerationResult, error) {
	return e.edit(result, func(data *models.ListicleData) error {
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" {
			item.ID = common.NewItemID()
		}
		data.Items = append(data.Items, item)
		return nil
	})
}

// RemoveItem deletes the item with itemID
func (e *Editor) RemoveItem(result *models.GenerationResult, itemID string) (*models.GenerationResult, error) {
	return e.edit(result, func(data *models.ListicleData) error {
		i := indexOf(data.Items, itemID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		data.Items = append(data.Items[:i], data.Items[i+1:]...)
		return nil
	})
}

// MoveItem swaps an item with its neighbour. Moving past either end is a no-op.
func (e *Editor) MoveItem(result *models.GenerationResult, itemID string, direction Direction) (*models.GenerationResult, error) {
	return e.edit(result, func(data *models.ListicleData) error {
		i := indexOf(data.Items, itemID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
		}
		var j int
		switch direction {
		case DirectionUp:
			j = i - 1
		case DirectionDown:
			j = i + 1
		default:
			return &RenderInputError{Reason: fmt.Sprintf("unknown direction %q", direction)}
		}
		if j < 0 || j >= len(data.Items) {
			return nil
		}
		data.Items[i], data.Items[j] = data.Items[j], data.Items[i]
		return nil
	})
}

// UpdateItem replaces the item that has the same id
func (e *Editor) UpdateItem(result *models.GenerationResult, item models.ListicleItem) (*models.GenerationResult, error) {
	return e.edit(result, func(data *models.ListicleData) error {
		i := indexOf(data.Items, item.ID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrItemNotFound, item.ID)
		}
		data.Items[i] = item
		return nil
	})
}

// SetTitle changes the title. List-shaped content is re-rendered since the title is part of it.
func (e *Editor) SetTitle(result *models.GenerationResult, title string) (*models.GenerationResult, error) {
	if result == nil {
		return nil, ErrNotListShaped
	}
	if result.ListicleData == nil {
		updated := *result
		updated.Title = title
		return &updated, nil
	}
	return e.edit(result, func(*models.ListicleData) error { return nil }, title)
}

// SetHeroImage changes the hero image; an empty url falls back to the placeholder when rendered
func (e *Editor) SetHeroImage(result *models.GenerationResult, url string) (*models.GenerationResult, error) {
	return e.edit(result, func(data *models.ListicleData) error {
		data.HeroImage = strings.TrimSpace(url)
		return nil
	})
}

// edit clones, mutates and re-renders. An optional title replaces the current one.
func (e *Editor) edit(result *models.GenerationResult, mutate func(*models.ListicleData) error, title ...string) (*models.GenerationResult, error) {
	if result == nil || result.ListicleData == nil {
		return nil, ErrNotListShaped
	}

	updated := *result
	updated.ListicleData = result.ListicleData.Clone()
	if len(title) > 0 {
		updated.Title = title[0]
	}

	if err := mutate(updated.ListicleData); err != nil {
		return nil, err
	}

	content, err := e.renderer.Render(updated.Title, updated.ListicleData)
	if err != nil {
		return nil, err
	}
	updated.Content = content
	return &updated, nil
}

func indexOf(items []models.ListicleItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
