package studio

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z0-9_-]*\\s*\\n?(.*?)\\n?```$")
	tagPattern   = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9-]*(\s[^>]*)?/?>`)
	bodyPattern  = regexp.MustCompile(`(?i)<body[\s>]`)

	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
)

// stripFences removes a single surrounding code fence such as ```html ... ```
func stripFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// normalizeMarkup turns model-written page content into an HTML fragment:
// fences are stripped, full documents are reduced to their head assets
// followed by their body and markdown without any tags is converted to HTML.
func normalizeMarkup(content string) (string, error) {
	content = stripFences(content)
	if content == "" {
		return "", nil
	}

	if bodyPattern.MatchString(content) {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err != nil {
			return "", err
		}

		// Head scripts, styles and stylesheets define the handlers the body calls
		var b strings.Builder
		var assetErr error
		doc.Find("head").Find("script, style, link").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if goquery.NodeName(sel) == "link" && !strings.EqualFold(sel.AttrOr("rel", ""), "stylesheet") {
				return true
			}
			asset, err := goquery.OuterHtml(sel)
			if err != nil {
				assetErr = err
				return false
			}
			b.WriteString(asset)
			b.WriteString("\n")
			return true
		})
		if assetErr != nil {
			return "", assetErr
		}

		body, err := doc.Find("body").First().Html()
		if err != nil {
			return "", err
		}
		b.WriteString(strings.TrimSpace(body))
		return strings.TrimSpace(b.String()), nil
	}

	if tagPattern.MatchString(content) {
		return content, nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
