package secapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filingrag/filingrag/internal/model"
)

func testClient(baseURL string, pageSize, perPair int) *Client {
	return NewClient(
		model.SECConfig{
			BaseURL:  baseURL,
			APIKey:   "test-key",
			PageSize: pageSize,
			PerPair:  perPair,
			Interval: time.Millisecond,
		},
		model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent"},
	)
}

func TestFetchPair_SinglePage(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req searchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotQuery = req.Query

		resp := searchResponse{}
		resp.Filings = []model.FilingRecord{
			{Ticker: "AAPL", FormType: "10-K", AccessionNo: "0000320193-23-000106"},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := testClient(server.URL, 20, 20)
	records, err := client.FetchPair(context.Background(), "AAPL", "10-K")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if gotAuth != "test-key" {
		t.Errorf("Expected API key in Authorization header, got %q", gotAuth)
	}
	if gotQuery != `ticker:AAPL AND formType:"10-K"` {
		t.Errorf("Unexpected query: %q", gotQuery)
	}
}

func TestFetchPair_PaginatesToPerPairCap(t *testing.T) {
	var requests []searchRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		requests = append(requests, req)

		size := 0
		_, _ = fmt.Sscanf(req.Size, "%d", &size)
		resp := searchResponse{}
		for i := 0; i < size; i++ {
			resp.Filings = append(resp.Filings, model.FilingRecord{Ticker: "TSLA"})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := testClient(server.URL, 2, 5)
	records, err := client.FetchPair(context.Background(), "TSLA", "8-K")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 5 {
		t.Errorf("Expected per-pair cap of 5 records, got %d", len(records))
	}
	if len(requests) != 3 {
		t.Fatalf("Expected 3 page requests, got %d", len(requests))
	}
	// Offsets advance by page size; the last page shrinks to the remainder.
	if requests[0].From != "0" || requests[1].From != "2" || requests[2].From != "4" {
		t.Errorf("Unexpected offsets: %s, %s, %s", requests[0].From, requests[1].From, requests[2].From)
	}
	if requests[2].Size != "1" {
		t.Errorf("Expected final page size 1, got %s", requests[2].Size)
	}
}

func TestFetchPair_ShortPageStops(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		resp := searchResponse{}
		resp.Filings = []model.FilingRecord{{Ticker: "JPM"}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := testClient(server.URL, 20, 40)
	records, err := client.FetchPair(context.Background(), "JPM", "10-Q")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 record, got %d", len(records))
	}
	if calls != 1 {
		t.Errorf("Expected a short page to stop pagination, got %d calls", calls)
	}
}

func TestFetchPair_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, "invalid api key")
	}))
	defer server.Close()

	client := testClient(server.URL, 20, 20)
	_, err := client.FetchPair(context.Background(), "AAPL", "10-K")
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(model.SECConfig{}, model.HTTPConfig{})
	if c.pageSize != 20 {
		t.Errorf("Expected default page size 20, got %d", c.pageSize)
	}
	if c.perPair != 20 {
		t.Errorf("Expected per-pair default to match page size, got %d", c.perPair)
	}
}
