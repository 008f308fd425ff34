// Package secapi implements the filings search API client.
package secapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/filingrag/filingrag/internal/model"
)

// Client queries the filings search API, one page at a time, with a fixed
// minimum interval between calls to respect the provider's rate limits.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	userAgent  string
	limiter    *rate.Limiter
	pageSize   int
	perPair    int
}

// NewClient creates a new search API client from configuration.
func NewClient(cfg model.SECConfig, httpCfg model.HTTPConfig) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	perPair := cfg.PerPair
	if perPair <= 0 {
		perPair = pageSize
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = model.DefaultConfig().SEC.Interval
	}

	return &Client{
		httpClient: &http.Client{Timeout: httpCfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  httpCfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		pageSize:   pageSize,
		perPair:    perPair,
	}
}

// searchRequest is the query API request body.
type searchRequest struct {
	Query string                 `json:"query"`
	From  string                 `json:"from"`
	Size  string                 `json:"size"`
	Sort  []map[string]sortOrder `json:"sort"`
}

type sortOrder struct {
	Order string `json:"order"`
}

// searchResponse is the query API response body.
type searchResponse struct {
	Total struct {
		Value    int    `json:"value"`
		Relation string `json:"relation"`
	} `json:"total"`
	Filings []model.FilingRecord `json:"filings"`
}

// FetchPair fetches up to the configured per-pair cap of filings for one
// (ticker, formType) pair, paginated, sorted by filing date descending.
func (c *Client) FetchPair(ctx context.Context, ticker, formType string) ([]model.FilingRecord, error) {
	query := fmt.Sprintf("ticker:%s AND formType:%q", ticker, formType)

	var records []model.FilingRecord
	for from := 0; len(records) < c.perPair; from += c.pageSize {
		size := c.pageSize
		if remaining := c.perPair - len(records); remaining < size {
			size = remaining
		}

		page, err := c.fetchPage(ctx, query, from, size)
		if err != nil {
			return records, err
		}
		records = append(records, page...)
		if len(page) < size {
			break
		}
	}
	return records, nil
}

// fetchPage issues one rate-limited search call.
func (c *Client) fetchPage(ctx context.Context, query string, from, size int) ([]model.FilingRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(searchRequest{
		Query: query,
		From:  strconv.Itoa(from),
		Size:  strconv.Itoa(size),
		Sort:  []map[string]sortOrder{{"filedAt": {Order: "desc"}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search filings: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return parsed.Filings, nil
}
