package models

import "time"

// SlideType distinguishes linked pages from generated pages
type SlideType string

const (
	SlideTypeExternal SlideType = "external"
	SlideTypeInternal SlideType = "internal"
)

// EditorialSlide is the persisted unit of magazine content
type EditorialSlide struct {
	ID       string    `json:"id"`
	Type     SlideType `json:"type" validate:"required,oneof=external internal"`
	URL      string    `json:"url,omitempty" validate:"required_if=Type external"`
	Profile  Profile   `json:"profile,omitempty"`
	Position int       `json:"position"`

	// Endpoints captured from the generation request, used by the interaction relay
	SyncEndpoint       string `json:"syncEndpoint,omitempty"`
	SubmissionEndpoint string `json:"submissionEndpoint,omitempty"`

	GenerationResult

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
