// Package jisho scrapes word senses from the jisho.org search page.
package jisho

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"kakitori/internal/domain"
)

const (
	// DefaultBaseURL is the public jisho.org site
	DefaultBaseURL = "https://jisho.org"

	acceptHeader    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	userAgentHeader = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"
	retryDelay      = 500 * time.Millisecond
)

// Client fetches and parses jisho search results
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a jisho client; an empty baseURL selects the public site
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("provider", "jisho")),
	}
}

// Search returns up to limit senses for word. Result blocks without a meaning are skipped.
func (c *Client) Search(ctx context.Context, word string, limit int) ([]domain.Candidate, error) {
	reqURL := c.baseURL + "/search/" + url.PathEscape(word)

	resp, err := c.doWithRetry(ctx, reqURL, word)
	if err != nil {
		return nil, fmt.Errorf("jisho: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jisho: unexpected status %d", resp.StatusCode)
	}

	candidates, blocks, err := Parse(resp.Body, word, limit)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Jisho search parsed",
		zap.String("word", word),
		zap.Int("blocks", blocks),
		zap.Int("candidates", len(candidates)),
	)

	return candidates, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors
func (c *Client) doWithRetry(ctx context.Context, reqURL, word string) (*http.Response, error) {
	resp, err := c.do(ctx, reqURL)

	shouldRetry := err != nil || resp.StatusCode >= 500
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	c.logger.Warn("Retrying jisho search", zap.String("word", word), zap.String("reason", reason))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryDelay):
	}

	return c.do(ctx, reqURL)
}

func (c *Client) do(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgentHeader)
	return c.httpClient.Do(req)
}

// Parse extracts candidates from the first limit result blocks of a search page.
// It also returns how many blocks the page held in total.
func Parse(r io.Reader, word string, limit int) ([]domain.Candidate, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("jisho: parse page: %w", err)
	}

	blocks := doc.Find("div.concept_light.clearfix")

	var candidates []domain.Candidate
	blocks.EachWithBreak(func(i int, block *goquery.Selection) bool {
		if i >= limit {
			return false
		}

		meaning := firstText(block,
			"span.meaning-meaning",
			".meaning-wrapper .meaning-meaning",
			".meanings-wrapper .meaning-meaning",
		)
		if meaning == "" {
			return true
		}

		candidates = append(candidates, domain.Candidate{
			Index:    len(candidates),
			Word:     word,
			Furigana: strippedText(block.Find("span.furigana").First()),
			Kanji:    strippedText(block.Find("span.text").First()),
			Level:    level(block),
			Meaning:  meaning,
		})
		return true
	})

	return candidates, blocks.Length(), nil
}

func firstText(block *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if text := strippedText(block.Find(selector).First()); text != "" {
			return text
		}
	}
	return ""
}

// level returns the first JLPT tag of a block, or the unclassified sentinel
func level(block *goquery.Selection) string {
	found := domain.UnclassifiedLevel
	block.Find("span.concept_light-tag.label").EachWithBreak(func(_ int, tag *goquery.Selection) bool {
		text := strippedText(tag)
		if strings.Contains(text, "JLPT") {
			found = text
			return false
		}
		return true
	})
	return found
}

// strippedText concatenates the trimmed text nodes under a selection
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}
