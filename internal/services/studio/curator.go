package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/models"
)

const (
	defaultCurateCount = 6
	maxCurateCount     = 20
)

var curationSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"slides": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title":       stringProperty("Article headline"),
					"description": stringProperty("Why it is worth reading, one sentence"),
					"category":    stringProperty("Short section label"),
					"url":         stringProperty("Canonical article URL"),
					"accentColor": stringProperty("Hex accent color"),
				},
				"required": []string{"title", "url"},
			},
		},
	},
	"required": []string{"slides"},
}

// Curator finds existing articles on a topic and returns them as external slides
type Curator struct {
	invoker *Invoker
	model   string
	logger  arbor.ILogger
}

// NewCurator creates a curator using model with search grounding
func NewCurator(invoker *Invoker, model string, logger arbor.ILogger) *Curator {
	return &Curator{invoker: invoker, model: model, logger: logger}
}

// Curate returns up to count external slides with fresh ids. Entries without a URL are dropped.
func (c *Curator) Curate(ctx context.Context, topic string, count int) ([]*models.EditorialSlide, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &ValidationError{Err: fmt.Errorf("topic is required")}
	}
	if count <= 0 {
		count = defaultCurateCount
	}
	if count > maxCurateCount {
		count = maxCurateCount
	}

	prompt := fmt.Sprintf(
		"Act as an elite 'Curation Crew'.\n\nTOPIC: %s\n\nMISSION:\nFind %d high-quality, recent articles about this topic "+
			"from reputable publications. For each give the headline, a one sentence reason to read it, a section label "+
			"and the article URL. Only include URLs you found through search.", topic, count)

	parsed, err := c.invoker.Invoke(ctx, c.model, prompt, curationSchema, true)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Slides []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Category    string `json:"category"`
			URL         string `json:"url"`
			AccentColor string `json:"accentColor"`
		} `json:"slides"`
	}
	raw, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode curation response: %w", err)
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &SchemaViolationError{Path: "slides", Reason: err.Error()}
	}

	now := time.Now()
	slides := make([]*models.EditorialSlide, 0, len(payload.Slides))
	for _, entry := range payload.Slides {
		url := strings.TrimSpace(entry.URL)
		if url == "" {
			continue
		}
		slides = append(slides, &models.EditorialSlide{
			ID:   common.NewSlideID(),
			Type: models.SlideTypeExternal,
			URL:  url,
			GenerationResult: models.GenerationResult{
				Title:       entry.Title,
				Description: entry.Description,
				Category:    entry.Category,
				AccentColor: entry.AccentColor,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if len(slides) == count {
			break
		}
	}

	c.logger.Info().
		Str("topic", topic).
		Int("requested", count).
		Int("returned", len(slides)).
		Msg("Curation complete")

	return slides, nil
}
