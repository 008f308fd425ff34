package crawl

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a filing URL may be fetched under its host's
// robots.txt. Rulesets are fetched once per host and held for the life of
// the checker; a run touches few hosts (EDGAR, a handful of mirrors), so the
// cache never needs eviction.
type RobotsChecker struct {
	mu         sync.RWMutex
	byHost     map[string]*robotstxt.RobotsData
	httpClient *http.Client
	agent      string
}

// NewRobotsChecker creates a checker matching rules against the given agent
// product token.
func NewRobotsChecker(agent string, timeout time.Duration) *RobotsChecker {
	return &RobotsChecker{
		byHost:     make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		agent:      agent,
	}
}

// IsAllowed reports whether rawURL may be fetched. Unparseable URLs are
// refused; a host whose robots.txt cannot be fetched allows by default.
func (r *RobotsChecker) IsAllowed(ctx context.Context, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	rules, err := r.rulesFor(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true
	}
	return rules.TestAgent(parsed.Path, r.agent)
}

// CrawlDelay returns the crawl-delay directive applying to rawURL's host,
// zero when the host declares none.
func (r *RobotsChecker) CrawlDelay(ctx context.Context, rawURL string) time.Duration {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}

	rules, err := r.rulesFor(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return 0
	}
	if group := rules.FindGroup(r.agent); group != nil {
		return group.CrawlDelay
	}
	return 0
}

// rulesFor returns the cached ruleset for host, fetching robots.txt on first
// use. robotstxt treats a 404 response as allow-all, so missing files cache
// a permissive ruleset rather than erroring on every URL.
func (r *RobotsChecker) rulesFor(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	rules, ok := r.byHost[host]
	r.mu.RUnlock()
	if ok {
		return rules, nil
	}

	robotsURL := scheme + "://" + host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	rules, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.byHost[host] = rules
	r.mu.Unlock()
	return rules, nil
}

// NormalizeUserAgent extracts the product token from a full User-Agent
// string for robots.txt group matching.
func NormalizeUserAgent(ua string) string {
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return ua
	}
	return strings.Split(fields[0], "/")[0]
}
