package frontmatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/filingrag/filingrag/internal/model"
)

func sampleRecord() model.FilingRecord {
	return model.FilingRecord{
		Ticker:      "AAPL",
		FormType:    "10-K",
		FiledAt:     "2023-11-03T16:31:29-04:00",
		AccessionNo: "0000320193-23-000106",
		CIK:         "320193",
		CompanyName: "Apple Inc.",
	}
}

func TestBuild_FieldDerivation(t *testing.T) {
	meta := Build(sampleRecord())

	if meta["ticker"] != "AAPL" {
		t.Errorf("Expected ticker AAPL, got %v", meta["ticker"])
	}
	if meta["filing_type"] != "10-K" {
		t.Errorf("Expected filing_type 10-K, got %v", meta["filing_type"])
	}
	if meta["section"] != "10-K" {
		t.Errorf("Expected section to copy filing_type, got %v", meta["section"])
	}
	if meta["cik"] != 320193 {
		t.Errorf("Expected numeric cik, got %T %v", meta["cik"], meta["cik"])
	}
}

func TestBuild_LegacyColumnFallback(t *testing.T) {
	r := model.FilingRecord{
		Ticker:     "TSLA",
		FilingType: "8-K",
		FilingDate: "2023-01-15",
	}
	meta := Build(r)
	if meta["filing_type"] != "8-K" {
		t.Errorf("Expected legacy filingType fallback, got %v", meta["filing_type"])
	}
	if meta["filing_date"] != "2023-01-15" {
		t.Errorf("Expected legacy filingDate fallback, got %v", meta["filing_date"])
	}
}

func TestBuild_SectionUnknownWithoutFilingType(t *testing.T) {
	meta := Build(model.FilingRecord{Ticker: "XOM"})
	if meta["section"] != "Unknown" {
		t.Errorf("Expected section Unknown, got %v", meta["section"])
	}
	if _, ok := meta["filing_type"]; ok {
		t.Errorf("Expected filing_type to be omitted when absent")
	}
}

func TestBuild_NonNumericCIKKeptAsString(t *testing.T) {
	meta := Build(model.FilingRecord{Ticker: "X", CIK: "not-a-number"})
	if meta["cik"] != "not-a-number" {
		t.Errorf("Expected string cik passthrough, got %v", meta["cik"])
	}
}

func TestAttach_Format(t *testing.T) {
	body := "# Annual Report\n\nRevenue grew."
	out, err := Attach(body, Build(sampleRecord()))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(out, "---\n") {
		t.Errorf("Expected document to start with the marker line")
	}
	if !strings.Contains(out, "---\n\n# Annual Report") {
		t.Errorf("Expected blank line between closing marker and body")
	}
	if !strings.HasSuffix(out, body) {
		t.Errorf("Expected body preserved verbatim")
	}

	// yaml.Marshal emits map keys sorted, so the header is deterministic.
	header := strings.SplitN(out, "---", 3)[1]
	lines := strings.Split(strings.TrimSpace(header), "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i-1] > lines[i] {
			t.Errorf("Expected sorted header keys, got %q before %q", lines[i-1], lines[i])
		}
	}
}

func TestAttach_AlreadyAttachedUnchanged(t *testing.T) {
	body := "---\nticker: AAPL\n---\n\ncontent"
	out, err := Attach(body, Build(sampleRecord()))
	if !errors.Is(err, ErrAlreadyAttached) {
		t.Fatalf("Expected ErrAlreadyAttached, got %v", err)
	}
	if out != body {
		t.Errorf("Expected document unchanged, got %q", out)
	}
}

func TestAttach_EmptyMetaIsNoop(t *testing.T) {
	out, err := Attach("body", map[string]any{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if out != "body" {
		t.Errorf("Expected body unchanged, got %q", out)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	body := "Item 1A. Risk Factors\n\nCompetition is intense."
	attached, err := Attach(body, Build(sampleRecord()))
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	meta, gotBody, err := Parse(attached)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta["ticker"] != "AAPL" {
		t.Errorf("Expected ticker AAPL, got %v", meta["ticker"])
	}
	if gotBody != body {
		t.Errorf("Expected body round-trip, got %q", gotBody)
	}
}

func TestParse_NoHeader(t *testing.T) {
	meta, body, err := Parse("  plain text\n")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(meta) != 0 {
		t.Errorf("Expected empty meta, got %v", meta)
	}
	if body != "plain text" {
		t.Errorf("Expected trimmed body, got %q", body)
	}
}
