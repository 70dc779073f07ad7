package models

import "time"

// CoverLayout is one of the fixed cover page layouts
type CoverLayout string

const (
	CoverLayoutMinimal   CoverLayout = "minimal"
	CoverLayoutBrutalist CoverLayout = "brutalist"
	CoverLayoutClassic   CoverLayout = "classic"
	CoverLayoutGradient  CoverLayout = "gradient"
	CoverLayoutGrid      CoverLayout = "grid"
	CoverLayoutHero      CoverLayout = "hero"
)

// CoverConfig describes the issue cover
type CoverConfig struct {
	LayoutID           CoverLayout `json:"layoutId" validate:"required,oneof=minimal brutalist classic gradient grid hero"`
	Title              string      `json:"title"`
	Subtitle           string      `json:"subtitle"`
	AccentColor        string      `json:"accentColor"`
	SecondaryColor     string      `json:"secondaryColor"`
	BackgroundImageURL string      `json:"backgroundImageUrl,omitempty" validate:"omitempty,url"`
	BackgroundVideoURL string      `json:"backgroundVideoUrl,omitempty" validate:"omitempty,url"`
}

// IssueSettings is the singleton metadata record of the magazine issue
type IssueSettings struct {
	ID          string      `json:"id"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Cover       CoverConfig `json:"cover" validate:"required"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CurrentIssueID is the key of the single issue record
const CurrentIssueID = "current"

// DefaultIssueSettings returns the issue used before an editor saves one
func DefaultIssueSettings() *IssueSettings {
	return &IssueSettings{
		ID:          CurrentIssueID,
		Name:        "Untitled Issue",
		Description: "",
		Cover: CoverConfig{
			LayoutID:       CoverLayoutMinimal,
			Title:          "Untitled Issue",
			AccentColor:    "#ffffff",
			SecondaryColor: "#050505",
		},
	}
}
