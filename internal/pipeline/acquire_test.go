package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/filingrag/filingrag/internal/crawl"
	"github.com/filingrag/filingrag/internal/frontmatter"
	"github.com/filingrag/filingrag/internal/model"
)

func testCrawler() *crawl.Client {
	return crawl.NewClient(
		model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test-agent", MaxBodyBytes: 1 << 20},
		model.CrawlConfig{PruneThreshold: 0.3, MinBlockWords: 3},
		nil,
	)
}

const filingPage = `<html><body>
<p>Apple Inc. reported net sales of $383.3 billion for fiscal 2023, a decline of three percent.</p>
<p>Services revenue reached an all time high during the fourth quarter of the year.</p>
</body></html>`

func TestAcquirer_WritesHeaderedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, filingPage)
	}))
	defer server.Close()

	outDir := t.TempDir()
	a := NewAcquirer(testCrawler(), outDir, false)

	records := []model.FilingRecord{{
		Ticker:      "AAPL",
		FormType:    "10-K",
		FiledAt:     "2023-11-03",
		AccessionNo: "0000320193-23-000106",
		LinkToTxt:   server.URL + "/Archives/edgar/data/320193/0000320193-23-000106.txt",
	}}

	summary, err := a.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 1 || len(summary.Failures) != 0 {
		t.Fatalf("Expected 1 success, got %+v", summary)
	}

	path := filepath.Join(outDir, "sec_Archives_edgar_data_320193_0000320193-23-000106.txt.md")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected output document: %v", err)
	}

	got := string(content)
	if !frontmatter.HasFrontmatter(got) {
		t.Fatal("Expected document to start with a metadata header")
	}
	for _, want := range []string{"ticker: AAPL", "filing_type: 10-K", "section: 10-K"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected header to contain %q", want)
		}
	}
	if !strings.Contains(got, "net sales") {
		t.Errorf("Expected cleaned body text, got %q", got)
	}
	if strings.Contains(got, "<p>") {
		t.Errorf("Expected markup stripped, got %q", got)
	}
}

func TestAcquirer_SkipsExistingHeaderedDocument(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = fmt.Fprint(w, filingPage)
	}))
	defer server.Close()

	outDir := t.TempDir()
	a := NewAcquirer(testCrawler(), outDir, false)

	records := []model.FilingRecord{{
		Ticker:      "AAPL",
		FormType:    "10-K",
		AccessionNo: "0000320193-23-000106",
		LinkToTxt:   server.URL + "/a.txt",
	}}

	if _, err := a.Run(context.Background(), records); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	before, _ := os.ReadFile(filepath.Join(outDir, "sec_a.txt.md"))

	summary, err := a.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if summary.Skipped != 1 {
		t.Errorf("Expected skip on re-run, got %+v", summary)
	}
	if calls != 1 {
		t.Errorf("Expected no second fetch, got %d calls", calls)
	}

	after, _ := os.ReadFile(filepath.Join(outDir, "sec_a.txt.md"))
	if string(before) != string(after) {
		t.Error("Expected existing document unchanged")
	}
}

func TestAcquirer_CollectsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewAcquirer(testCrawler(), t.TempDir(), false)
	records := []model.FilingRecord{
		{Ticker: "TSLA", LinkToTxt: server.URL + "/broken.txt"},
		{},
		{Ticker: "JPM"},
	}

	summary, err := a.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 0 {
		t.Errorf("Expected no successes, got %d", summary.Succeeded)
	}
	if len(summary.Failures) != 3 {
		t.Fatalf("Expected 3 failures, got %d", len(summary.Failures))
	}
	if summary.Failures[0].Ticker != "TSLA" {
		t.Errorf("Expected ticker preserved, got %q", summary.Failures[0].Ticker)
	}
	if summary.Failures[1].Ticker != "UNK" {
		t.Errorf("Expected UNK for tickerless record, got %q", summary.Failures[1].Ticker)
	}
	if summary.Failures[2].Reason != "no valid URL" {
		t.Errorf("Expected url failure reason, got %q", summary.Failures[2].Reason)
	}
}

func TestAcquirer_FallbackPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html><body><p>fallback document text</p></body></html>`)
	}))
	defer server.Close()

	outDir := t.TempDir()
	a := NewAcquirer(testCrawler(), outDir, false)

	records := []model.FilingRecord{{
		Ticker:      "NVDA",
		FormType:    "10-Q",
		AccessionNo: "0001045810-23-000175",
		DocumentURL: server.URL + "/doc.htm",
	}}

	summary, err := a.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("Expected success, got %+v", summary)
	}

	content, err := os.ReadFile(filepath.Join(outDir, "NVDA_10-Q_0001045810-23-000175.md"))
	if err != nil {
		t.Fatalf("Expected fallback-named output: %v", err)
	}
	if !strings.Contains(string(content), "fallback document text") {
		t.Errorf("Expected extracted text, got %q", string(content))
	}
}
