package studio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
)

// ExcerptFetcher downloads web sources and turns their main content into short markdown excerpts
type ExcerptFetcher struct {
	client    *http.Client
	converter *md.Converter
	maxChars  int
	maxBytes  int64
	userAgent string
	logger    arbor.ILogger
}

const defaultMaxBodyBytes = 2 << 20

// NewExcerptFetcher creates a fetcher from the [sources] section
func NewExcerptFetcher(config *common.SourcesConfig, logger arbor.ILogger) *ExcerptFetcher {
	timeout := common.ParseDurationOr(config.RequestTimeout, 20*time.Second)
	maxChars := config.ExcerptChars
	if maxChars <= 0 {
		maxChars = 2000
	}
	maxBytes := config.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	return &ExcerptFetcher{
		client:    &http.Client{Timeout: timeout},
		converter: md.NewConverter("", true, nil),
		maxChars:  maxChars,
		maxBytes:  maxBytes,
		userAgent: config.UserAgent,
		logger:    logger,
	}
}

// Fetch returns one excerpt block per reachable URL, in input order.
// Failures are logged and skipped.
func (f *ExcerptFetcher) Fetch(ctx context.Context, urls []string) string {
	var blocks []string
	for _, url := range urls {
		excerpt, err := f.fetchOne(ctx, url)
		if err != nil {
			f.logger.Warn().Str("url", url).Err(err).Msg("Skipping source excerpt")
			continue
		}
		if excerpt == "" {
			continue
		}
		blocks = append(blocks, "### "+url+"\n"+excerpt)
	}
	return strings.Join(blocks, "\n\n")
}

func (f *ExcerptFetcher) fetchOne(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Pages larger than the cap are parsed from their first maxBytes only
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, nav, header, footer, aside, form, iframe").Remove()

	selection := doc.Find("article").First()
	if selection.Length() == 0 {
		selection = doc.Find("main").First()
	}
	if selection.Length() == 0 {
		selection = doc.Find("body").First()
	}

	html, err := selection.Html()
	if err != nil {
		return "", err
	}

	markdown, err := f.converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert to markdown: %w", err)
	}

	return truncate(strings.TrimSpace(markdown), f.maxChars), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
