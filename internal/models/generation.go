package models

import "encoding/json"

// GenerationRequest is one caller submission to the generation pipeline
type GenerationRequest struct {
	Profile    Profile      `json:"profile" validate:"required"`
	Topic      string       `json:"topic" validate:"required"`
	Brief      string       `json:"brief"`
	ImageURL   string       `json:"imageUrl,omitempty" validate:"omitempty,url"`
	ButtonText string       `json:"buttonText,omitempty"`
	ButtonLink string       `json:"buttonLink,omitempty" validate:"omitempty,url"`
	Sources    SourceBundle `json:"sources"`
	Mode       PodcastMode  `json:"mode,omitempty" validate:"omitempty,oneof=solo duo"`
}

// GenerationResult is the fully-formed output of one generation.
// When ListicleData is set, Content is always the render of (Title, ListicleData).
type GenerationResult struct {
	Title        string        `json:"title"`
	Subtitle     string        `json:"subtitle,omitempty"`
	Description  string        `json:"description"`
	Category     string        `json:"category"`
	AccentColor  string        `json:"accentColor"`
	Price        string        `json:"price,omitempty"`
	Content      string        `json:"content"`
	ListicleData *ListicleData `json:"listicleData,omitempty"`
	// AudioData is base64 24kHz mono PCM. Podcast results always carry it, possibly empty.
	AudioData *string `json:"audioData,omitempty"`
}

// TrustedFragment is pre-formatted markup supplied by an editor.
// It is the only listicle field embedded without escaping.
type TrustedFragment string

// ListicleItem is one card of a list-shaped page
type ListicleItem struct {
	ID          string          `json:"id" validate:"required"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Link        string          `json:"link,omitempty"`
	Price       string          `json:"price,omitempty"`
	RawBlock    TrustedFragment `json:"rawBlock,omitempty"`
}

// ListicleData is the structured source of a listicle page. Item order is meaningful.
type ListicleData struct {
	HeroImage string         `json:"heroImage,omitempty"`
	Items     []ListicleItem `json:"items"`
}

// UnmarshalJSON accepts the legacy "sidebarImage" key as an alias of "heroImage"
func (d *ListicleData) UnmarshalJSON(data []byte) error {
	type plain ListicleData
	var aux struct {
		plain
		SidebarImage string `json:"sidebarImage"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*d = ListicleData(aux.plain)
	if d.HeroImage == "" {
		d.HeroImage = aux.SidebarImage
	}
	if d.Items == nil {
		d.Items = []ListicleItem{}
	}
	return nil
}

// Clone returns a deep copy so edits never alias the caller's slice
func (d *ListicleData) Clone() *ListicleData {
	if d == nil {
		return nil
	}
	items := make([]ListicleItem, len(d.Items))
	copy(items, d.Items)
	return &ListicleData{HeroImage: d.HeroImage, Items: items}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
