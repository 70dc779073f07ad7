package models

import "strings"

// SourceBundle is the set of reference materials fed into a generation request.
// A nil list is equivalent to an empty list.
type SourceBundle struct {
	WebSources         []string `json:"webSources,omitempty"`
	SheetSources       []string `json:"sheetSources,omitempty"`
	DriveSources       []string `json:"driveSources,omitempty"`
	SyncEndpoint       string   `json:"syncEndpoint,omitempty"`
	SubmissionEndpoint string   `json:"submissionEndpoint,omitempty"`
}

// Clean returns a copy with blank and whitespace-only entries removed.
// Relative order of the remaining entries is preserved.
func (b SourceBundle) Clean() SourceBundle {
	return SourceBundle{
		WebSources:         nonBlank(b.WebSources),
		SheetSources:       nonBlank(b.SheetSources),
		DriveSources:       nonBlank(b.DriveSources),
		SyncEndpoint:       strings.TrimSpace(b.SyncEndpoint),
		SubmissionEndpoint: strings.TrimSpace(b.SubmissionEndpoint),
	}
}

// IsEmpty reports whether the bundle carries no usable entries
func (b SourceBundle) IsEmpty() bool {
	c := b.Clean()
	return len(c.WebSources) == 0 && len(c.SheetSources) == 0 && len(c.DriveSources) == 0 &&
		c.SyncEndpoint == "" && c.SubmissionEndpoint == ""
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
