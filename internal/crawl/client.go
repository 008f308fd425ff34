// Package crawl implements the document crawling client: polite, cached HTTP
// fetching plus the two content conversions the acquisition pipeline uses (a
// pruned "fit" rendition for plain-text filings and a default markdown
// rendition for HTML pages).
package crawl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/filingrag/filingrag/internal/cache"
	"github.com/filingrag/filingrag/internal/model"
)

// Client fetches filing content over HTTP.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache    // nil disables caching
	robots     *RobotsChecker // nil disables robots.txt checks
	pruner     *Pruner
}

// NewClient creates a crawling client. A nil store disables response caching.
func NewClient(httpCfg model.HTTPConfig, crawlCfg model.CrawlConfig, store cache.Cache) *Client {
	var robots *RobotsChecker
	if crawlCfg.RespectRobots {
		robots = NewRobotsChecker(NormalizeUserAgent(httpCfg.UserAgent), httpCfg.Timeout)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: httpCfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  httpCfg.MaxBodyBytes,
		cache:     store,
		robots:    robots,
		pruner:    NewPruner(crawlCfg.PruneThreshold, crawlCfg.MinBlockWords),
	}
}

// Fetch retrieves the raw content at rawURL, consulting robots.txt and the
// response cache first.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	if c.robots != nil {
		if !c.robots.IsAllowed(ctx, rawURL) {
			return "", fmt.Errorf("blocked by robots.txt: %s", rawURL)
		}
	}

	key := cache.CacheKey(rawURL)
	if c.cache != nil {
		if body, found := c.cache.Get(key); found {
			return string(body), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if c.cache != nil {
		_ = c.cache.Set(key, body, 0)
	}

	return string(body), nil
}

// FetchFit fetches rawURL and returns a pruned HTML rendition with
// low-information blocks removed. The result still carries markup and is
// meant to pass through the normalizer's HTML-stripping stage.
func (c *Client) FetchFit(ctx context.Context, rawURL string) (string, error) {
	raw, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse content: %w", err)
	}

	c.pruner.Prune(doc)

	fit, err := doc.Find("body").Html()
	if err != nil || fit == "" {
		fit, err = doc.Html()
		if err != nil {
			return "", fmt.Errorf("render pruned content: %w", err)
		}
	}
	return fit, nil
}

// FetchMarkdown fetches rawURL with default settings and returns its markdown
// conversion; the HTML-stripping stage is skipped for this path.
func (c *Client) FetchMarkdown(ctx context.Context, rawURL string) (string, error) {
	raw, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parse content: %w", err)
	}
	return ToMarkdown(doc), nil
}
