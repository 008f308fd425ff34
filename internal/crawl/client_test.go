package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/filingrag/filingrag/internal/cache"
	"github.com/filingrag/filingrag/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
	}
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = fmt.Fprint(w, "body text")
	}))
	defer server.Close()

	c := NewClient(testHTTPConfig(), model.CrawlConfig{}, nil)
	got, err := c.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "body text" {
		t.Errorf("Unexpected body: %q", got)
	}
	if gotUA != "test-agent" {
		t.Errorf("Expected configured User-Agent, got %q", gotUA)
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(testHTTPConfig(), model.CrawlConfig{}, nil)
	if _, err := c.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404")
	}
}

func TestFetch_BodyCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("x", 1000))
	}))
	defer server.Close()

	cfg := testHTTPConfig()
	cfg.MaxBodyBytes = 100
	c := NewClient(cfg, model.CrawlConfig{}, nil)

	got, err := c.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 100 {
		t.Errorf("Expected body capped at 100 bytes, got %d", len(got))
	}
}

func TestFetch_UsesCache(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = fmt.Fprint(w, "cached content")
	}))
	defer server.Close()

	store := cache.NewMemoryCache(time.Minute, time.Minute)
	c := NewClient(testHTTPConfig(), model.CrawlConfig{}, store)

	for i := 0; i < 3; i++ {
		got, err := c.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
		if got != "cached content" {
			t.Errorf("Unexpected body: %q", got)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 origin request with caching, got %d", calls)
	}
}

func TestFetch_RedirectCap(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	c := NewClient(testHTTPConfig(), model.CrawlConfig{}, nil)
	if _, err := c.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Expected redirect loop to fail")
	}
}

func TestFetchFit_PrunesLowValueBlocks(t *testing.T) {
	page := `<html><body>
<p><a href="/nav">site navigation links only in this block here</a></p>
<p>Management believes liquidity remains sufficient to fund operations for the next twelve months.</p>
</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, page)
	}))
	defer server.Close()

	c := NewClient(testHTTPConfig(), model.CrawlConfig{PruneThreshold: 0.3, MinBlockWords: 5}, nil)
	got, err := c.FetchFit(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(got, "liquidity remains sufficient") {
		t.Errorf("Expected narrative block kept, got %q", got)
	}
	if strings.Contains(got, "site navigation") {
		t.Errorf("Expected link block pruned, got %q", got)
	}
}

func TestFetchMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body><h2>Overview</h2><p>Quarterly results.</p></body></html>`)
	}))
	defer server.Close()

	c := NewClient(testHTTPConfig(), model.CrawlConfig{}, nil)
	got, err := c.FetchMarkdown(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(got, "## Overview") {
		t.Errorf("Expected heading conversion, got %q", got)
	}
}
