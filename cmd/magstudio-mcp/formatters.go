package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/magstudio/internal/models"
	"github.com/ternarybob/magstudio/internal/services/studio"
)

// contentPreviewChars bounds the markup echoed back to the client
const contentPreviewChars = 2000

// formatProfiles formats the registry as a markdown table
func formatProfiles(descriptors []*studio.Descriptor) string {
	var sb strings.Builder
	sb.WriteString("## Profiles\n\n")
	sb.WriteString("| Profile | Model | Grounded | Items |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, d := range descriptors {
		items := "-"
		if d.Template.MaxItems > 0 {
			items = fmt.Sprintf("%d-%d", d.Template.MinItems, d.Template.MaxItems)
		}
		fmt.Fprintf(&sb, "| %s | %s | %t | %s |\n", d.Profile, d.Model, d.Grounded, items)
	}
	return sb.String()
}

// formatOutcome formats a generation outcome as markdown
func formatOutcome(outcome *studio.GenerationOutcome, saved *models.EditorialSlide) string {
	result := outcome.Result

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n", result.Title)
	if result.Subtitle != "" {
		fmt.Fprintf(&sb, "_%s_\n", result.Subtitle)
	}
	fmt.Fprintf(&sb, "\n**Profile:** %s (%s)\n", outcome.Profile, outcome.Model)
	fmt.Fprintf(&sb, "**Category:** %s\n", result.Category)
	fmt.Fprintf(&sb, "**Duration:** %s\n", outcome.Duration.Round(time.Millisecond))
	if result.ListicleData != nil {
		fmt.Fprintf(&sb, "**Items:** %d\n", len(result.ListicleData.Items))
	}
	if result.AudioData != nil {
		fmt.Fprintf(&sb, "**Audio:** %d base64 chars\n", len(*result.AudioData))
	}
	if outcome.AudioDegraded {
		sb.WriteString("**Audio:** unavailable, text only\n")
	}
	if saved != nil {
		fmt.Fprintf(&sb, "**Saved as slide:** %s (position %d)\n", saved.ID, saved.Position)
	}

	fmt.Fprintf(&sb, "\n%s\n\n#### Content:\n", result.Description)
	content := result.Content
	if len(content) > contentPreviewChars {
		content = content[:contentPreviewChars] + "..."
	}
	sb.WriteString(content)
	sb.WriteString("\n")
	return sb.String()
}

// formatSlides formats slides as a numbered markdown list
func formatSlides(all []*models.EditorialSlide) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Slides (%d)\n\n", len(all))
	if len(all) == 0 {
		sb.WriteString("No slides.\n")
		return sb.String()
	}

	for i, slide := range all {
		title := slide.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&sb, "%d. **%s** [%s", i+1, title, slide.Type)
		if slide.Profile != "" {
			fmt.Fprintf(&sb, ", %s", slide.Profile)
		}
		sb.WriteString("]")
		if slide.URL != "" {
			fmt.Fprintf(&sb, " %s", slide.URL)
		}
		if slide.ID != "" {
			fmt.Fprintf(&sb, " `%s`", slide.ID)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
