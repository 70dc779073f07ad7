package studio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	assert.Equal(t, "<div>x</div>", stripFences("```html\n<div>x</div>\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("  ```json\n{\"a\":1}\n```  "))
	assert.Equal(t, "plain", stripFences("plain"))
	assert.Equal(t, "a ``` b", stripFences("a ``` b"))
}

func TestNormalizeMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "fragment kept", in: `<section class="p-4"><h2>Hi</h2></section>`, want: `<section class="p-4"><h2>Hi</h2></section>`},
		{name: "fenced fragment", in: "```html\n<div>x</div>\n```", want: "<div>x</div>"},
		{name: "full document", in: "<!DOCTYPE html><html><head><title>t</title></head><body><main>x</main></body></html>", want: "<main>x</main>"},
		{name: "markdown", in: "# Heading\n\nSome **bold** text", want: "<h1>Heading</h1>\n<p>Some <strong>bold</strong> text</p>"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeMarkup(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeMarkup_KeepsHeadAssets(t *testing.T) {
	doc := `<!DOCTYPE html><html><head>
<title>Course</title>
<meta charset="utf-8">
<link rel="icon" href="/favicon.ico">
<link rel="stylesheet" href="https://fonts.example/course.css">
<script src="https://cdn.tailwindcss.com"></script>
<script>function markComplete(id){ window.StudioBridge.track(id, 'complete'); }</script>
<style>.done{opacity:.5}</style>
</head><body><button onclick="markComplete('m1')">Mark complete</button></body></html>`

	got, err := normalizeMarkup(doc)
	require.NoError(t, err)

	assert.Contains(t, got, `<script src="https://cdn.tailwindcss.com"></script>`)
	assert.Contains(t, got, "function markComplete(id)")
	assert.Contains(t, got, "<style>.done{opacity:.5}</style>")
	assert.Contains(t, got, `href="https://fonts.example/course.css"`)
	assert.Contains(t, got, "Mark complete</button>")
	assert.NotContains(t, got, "<title>")
	assert.NotContains(t, got, "favicon")

	// Assets come before the body so handlers exist when it runs
	assert.Less(t, strings.Index(got, "function markComplete"), strings.Index(got, "<button"))
}
