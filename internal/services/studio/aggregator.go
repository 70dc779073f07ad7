package studio

import (
	"strings"

	"github.com/ternarybob/magstudio/internal/models"
)

// BuildContext turns a source bundle into ordered prompt fragments:
// web, sheet, document, webhook directive, submission directive.
// Blank entries are dropped and a list with nothing left contributes no fragment.
// It performs no I/O and is safe for concurrent use.
func BuildContext(sources models.SourceBundle) string {
	cleaned := sources.Clean()

	var fragments []string
	if f := listFragment("WEB SOURCES (use as primary research references)", cleaned.WebSources); f != "" {
		fragments = append(fragments, f)
	}
	if f := listFragment("SPREADSHEET SOURCES (treat rows as structured facts)", cleaned.SheetSources); f != "" {
		fragments = append(fragments, f)
	}
	if f := listFragment("DOCUMENT SOURCES (background reading)", cleaned.DriveSources); f != "" {
		fragments = append(fragments, f)
	}
	if cleaned.SyncEndpoint != "" {
		fragments = append(fragments,
			"WEBHOOK: interactions are synced to "+cleaned.SyncEndpoint+
				". Route every interactive element through window.StudioBridge; never call the webhook directly.")
	}
	if cleaned.SubmissionEndpoint != "" {
		fragments = append(fragments,
			"SUBMISSION ENDPOINT: "+cleaned.SubmissionEndpoint+
				". Any lead form must POST its field values to this URL.")
	}

	return strings.Join(fragments, "\n\n")
}

func listFragment(label string, entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(label)
	b.WriteString(":")
	for _, entry := range entries {
		b.WriteString("\n- ")
		b.WriteString(entry)
	}
	return b.String()
}
