package studio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/magstudio/internal/models"
)

func TestBuildContext_Order(t *testing.T) {
	out := BuildContext(models.SourceBundle{
		WebSources:         []string{"https://web.example.com"},
		SheetSources:       []string{"https://sheet.example.com"},
		DriveSources:       []string{"https://drive.example.com"},
		SyncEndpoint:       "https://hooks.example.com/sync",
		SubmissionEndpoint: "https://forms.example.com/submit",
	})

	positions := []int{
		strings.Index(out, "WEB SOURCES"),
		strings.Index(out, "SPREADSHEET SOURCES"),
		strings.Index(out, "DOCUMENT SOURCES"),
		strings.Index(out, "WEBHOOK"),
		strings.Index(out, "SUBMISSION ENDPOINT"),
	}
	for i, pos := range positions {
		assert.GreaterOrEqual(t, pos, 0, "fragment %d missing", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1])
		}
	}
	assert.Contains(t, out, "https://forms.example.com/submit")
	assert.Contains(t, out, "window.StudioBridge")
}

func TestBuildContext_DropsBlanks(t *testing.T) {
	out := BuildContext(models.SourceBundle{
		WebSources:   []string{"", "  ", "https://a.example.com", "https://b.example.com"},
		SheetSources: []string{" "},
	})

	assert.Equal(t, "WEB SOURCES (use as primary research references):\n- https://a.example.com\n- https://b.example.com", out)
	assert.NotContains(t, out, "SPREADSHEET")
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(models.SourceBundle{}))
	assert.Equal(t, "", BuildContext(models.SourceBundle{WebSources: []string{""}, SyncEndpoint: "  "}))
}

func TestBuildContext_Deterministic(t *testing.T) {
	bundle := models.SourceBundle{DriveSources: []string{"d1", "d2"}, SyncEndpoint: "https://x"}
	assert.Equal(t, BuildContext(bundle), BuildContext(bundle))
}
