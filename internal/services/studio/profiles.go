package studio

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/models"
)

// modelTier picks which configured Gemini model a profile uses by default
type modelTier int

const (
	tierPro modelTier = iota
	tierFast
)

// profileRow is the static part of a descriptor; text lives in the profile templates
type profileRow struct {
	tier        modelTier
	grounded    bool
	listShaped  bool
	schema      map[string]interface{}
	postProcess PostProcessor
}

// profileTable covers the closed profile set. NewRegistry refuses to start when a profile is missing.
var profileTable = map[models.Profile]profileRow{
	models.ProfileListicle:       {grounded: true, listShaped: true, schema: listicleSchema(), postProcess: postProcessListicle},
	models.ProfileBlog:           {grounded: true, schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfileCourse:         {schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfileChatbot:        {schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfilePodcast:        {schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfileVideoStory:     {schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfileLeadGen:        {schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfileMiniApp:        {schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfileAd:             {schema: pageSchema(priceProperty()), postProcess: postProcessPage},
	models.ProfileResearch:       {grounded: true, schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfileVideoGallery:   {schema: pageSchema(nil), postProcess: postProcessPage},
	models.ProfileProductGallery: {schema: pageSchema(priceProperty()), postProcess: postProcessPage},
	models.ProfileLayout:         {schema: pageSchema(nil), postProcess: postProcessPage},
}

func stringProperty(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func priceProperty() map[string]interface{} {
	return map[string]interface{}{"price": stringProperty("Headline price with currency symbol")}
}

// headerProperties are shared by every profile schema
func headerProperties() map[string]interface{} {
	return map[string]interface{}{
		"title":       stringProperty("Page headline"),
		"subtitle":    stringProperty("Optional standfirst"),
		"description": stringProperty("One or two sentence summary"),
		"category":    stringProperty("Short section label"),
		"accentColor": stringProperty("Hex accent color such as #ff3b00"),
	}
}

func pageSchema(extra map[string]interface{}) map[string]interface{} {
	props := headerProperties()
	props["content"] = stringProperty("Complete page body as HTML with Tailwind classes")
	for name, prop := range extra {
		props[name] = prop
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"title", "description", "category", "accentColor", "content"},
	}
}

func listicleSchema() map[string]interface{} {
	props := headerProperties()
	props["listicleData"] = map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"heroImage": stringProperty("Hero image URL"),
			"items": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"id":          stringProperty("Short unique id"),
						"title":       stringProperty("Catchy item title"),
						"description": stringProperty("About 20 words"),
						"imageUrl":    stringProperty("Image URL"),
						"link":        stringProperty("External link"),
						"price":       stringProperty("Optional price"),
					},
					"required": []string{"id", "title", "description"},
				},
			},
		},
		"required": []string{"items"},
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   []string{"title", "description", "category", "accentColor", "listicleData"},
	}
}

// decodeResult maps the schema-checked object onto a GenerationResult
func decodeResult(parsed map[string]interface{}) (*models.GenerationResult, error) {
	raw, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parsed response: %w", err)
	}
	var result models.GenerationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &SchemaViolationError{Reason: err.Error()}
	}
	result.AudioData = nil
	return &result, nil
}

// postProcessListicle applies the caller's hero image, repairs item ids and renders the page
func postProcessListicle(parsed map[string]interface{}, req *models.GenerationRequest, r *Renderer) (*models.GenerationResult, error) {
	result, err := decodeResult(parsed)
	if err != nil {
		return nil, err
	}
	if result.ListicleData == nil {
		return nil, &SchemaViolationError{Path: "listicleData", Reason: "required field is missing"}
	}

	if image := strings.TrimSpace(req.ImageURL); image != "" {
		result.ListicleData.HeroImage = image
	}

	// Models occasionally repeat or omit ids; the renderer needs them unique
	seen := make(map[string]struct{}, len(result.ListicleData.Items))
	for i := range result.ListicleData.Items {
		item := &result.ListicleData.Items[i]
		item.ID = strings.TrimSpace(item.ID)
		if _, dup := seen[item.ID]; item.ID == "" || dup {
			item.ID = common.NewItemID()
		}
		// Trusted markup only ever comes from an editor
		item.RawBlock = ""
		seen[item.ID] = struct{}{}
	}

	content, err := r.Render(result.Title, result.ListicleData)
	if err != nil {
		return nil, err
	}
	result.Content = content
	return result, nil
}

// postProcessPage normalizes model-written markup for the text-shaped profiles
func postProcessPage(parsed map[string]interface{}, req *models.GenerationRequest, r *Renderer) (*models.GenerationResult, error) {
	result, err := decodeResult(parsed)
	if err != nil {
		return nil, err
	}
	result.ListicleData = nil

	content, err := normalizeMarkup(result.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize content markup: %w", err)
	}
	result.Content = content
	return result, nil
}
