// Package fetch retrieves article pages and extracts their readable text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/truthlens/truthlens/internal/config"
)

// minArticleChars rejects pages with too little readable text to assess.
const minArticleChars = 200

// minParagraphChars filters out navigation crumbs and caption fragments.
const minParagraphChars = 30

// Page is the readable content of a fetched article.
type Page struct {
	URL   string
	Title string
	Text  string
}

// ArticleFetcher downloads article pages over HTTP.
type ArticleFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewArticleFetcher creates a new fetcher.
func NewArticleFetcher(cfg *config.FetchConfig) *ArticleFetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "TruthLens/1.0"
	}

	return &ArticleFetcher{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		maxBytes:   maxBytes,
	}
}

// Fetch downloads a page and extracts its title and readable text.
func (f *ArticleFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("URL has no host")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find("script, style, noscript, iframe, nav, header, footer, aside, form").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		title = strings.TrimSpace(og)
	}

	text := extractText(doc)
	if len(text) < minArticleChars {
		return nil, fmt.Errorf("page contains too little readable text")
	}

	return &Page{
		URL:   parsed.String(),
		Title: title,
		Text:  text,
	}, nil
}

// extractText prefers dedicated content containers before falling back
// to all paragraphs, then to the whole body.
func extractText(doc *goquery.Document) string {
	selectors := []string{"article p", "main p", "[role=main] p", "p"}

	for _, selector := range selectors {
		var paragraphs []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			t := normalizeSpace(s.Text())
			if len(t) >= minParagraphChars {
				paragraphs = append(paragraphs, t)
			}
		})
		if len(paragraphs) > 0 {
			return strings.Join(paragraphs, "\n\n")
		}
	}

	return normalizeSpace(doc.Find("body").Text())
}

var spaceRe = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
