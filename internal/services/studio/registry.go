package studio

import (
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/models"
	"github.com/ternarybob/magstudio/internal/templates"
)

// PostProcessor turns a schema-checked response into a finished result
type PostProcessor func(parsed map[string]interface{}, req *models.GenerationRequest, r *Renderer) (*models.GenerationResult, error)

// Descriptor is everything the pipeline needs to generate one profile
type Descriptor struct {
	Profile     models.Profile
	Model       string
	Grounded    bool
	ListShaped  bool
	Template    *templates.ProfileTemplate
	Schema      map[string]interface{}
	PostProcess PostProcessor
}

// Registry resolves profile tags to descriptors. It is immutable after construction.
type Registry struct {
	descriptors map[models.Profile]*Descriptor
}

// NewRegistry builds a descriptor for every profile and fails if any is incomplete
func NewRegistry(studioConfig *common.StudioConfig, geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*Registry, error) {
	return newRegistry(profileTable, studioConfig, geminiConfig, logger)
}

func newRegistry(table map[models.Profile]profileRow, studioConfig *common.StudioConfig, geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*Registry, error) {
	registry := &Registry{descriptors: make(map[models.Profile]*Descriptor, len(table))}

	for _, profile := range models.AllProfiles() {
		row, ok := table[profile]
		if !ok {
			return nil, fmt.Errorf("profile %s has no descriptor", profile)
		}
		if len(row.schema) == 0 {
			return nil, fmt.Errorf("profile %s has no response schema", profile)
		}
		if row.postProcess == nil {
			return nil, fmt.Errorf("profile %s has no post-processor", profile)
		}

		tmpl, err := templates.GetProfileTemplate(string(profile), studioConfig.TemplatesDir)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", profile, err)
		}

		model := geminiConfig.Model
		if row.tier == tierFast {
			model = geminiConfig.FastModel
		}
		if override := strings.TrimSpace(studioConfig.ProfileModels[string(profile)]); override != "" {
			model = override
		}

		registry.descriptors[profile] = &Descriptor{
			Profile:     profile,
			Model:       model,
			Grounded:    row.grounded,
			ListShaped:  row.listShaped,
			Template:    tmpl,
			Schema:      row.schema,
			PostProcess: row.postProcess,
		}
	}

	logger.Debug().Int("profiles", len(registry.descriptors)).Msg("Profile registry initialised")
	return registry, nil
}

// Resolve returns the descriptor for a profile tag
func (r *Registry) Resolve(profile models.Profile) (*Descriptor, error) {
	d, ok := r.descriptors[profile]
	if !ok {
		return nil, &ProfileNotFoundError{Profile: profile}
	}
	return d, nil
}

// Descriptors returns all descriptors in the stable profile order
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.descriptors))
	for _, profile := range models.AllProfiles() {
		if d, ok := r.descriptors[profile]; ok {
			out = append(out, d)
		}
	}
	return out
}

// BuildPrompt assembles the generation prompt. The same request and context always yield the same text.
func (d *Descriptor) BuildPrompt(req *models.GenerationRequest, context string) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(d.Template.Role))
	b.WriteString("\n\nTOPIC: ")
	b.WriteString(strings.TrimSpace(req.Topic))

	b.WriteString("\nBRIEF: ")
	if brief := strings.TrimSpace(req.Brief); brief != "" {
		b.WriteString(brief)
	} else {
		b.WriteString("No additional brief.")
	}

	if image := strings.TrimSpace(req.ImageURL); image != "" {
		b.WriteString("\nREFERENCE IMAGE: ")
		b.WriteString(image)
	}

	if text, link := strings.TrimSpace(req.ButtonText), strings.TrimSpace(req.ButtonLink); text != "" || link != "" {
		fmt.Fprintf(&b, "\nCALL TO ACTION: button %q linking to %s", text, link)
	}

	if d.Profile == models.ProfilePodcast {
		if req.Mode == models.PodcastModeDuo {
			b.WriteString("\nFORMAT: two hosts in conversation.")
		} else {
			b.WriteString("\nFORMAT: a single host.")
		}
	}

	b.WriteString("\n\nMISSION:\n")
	b.WriteString(strings.TrimSpace(d.Template.Mission))
	if d.Template.MaxItems > 0 {
		fmt.Fprintf(&b, "\nReturn between %d and %d items.", d.Template.MinItems, d.Template.MaxItems)
	}

	if directive := strings.TrimSpace(d.Template.Directive); directive != "" {
		b.WriteString("\n\nLAYOUT AND INTERACTION:\n")
		b.WriteString(directive)
	}

	if context = strings.TrimSpace(context); context != "" {
		b.WriteString("\n\nCONTEXT:\n")
		b.WriteString(context)
	}

	return b.String()
}
