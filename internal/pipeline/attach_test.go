package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/filingrag/filingrag/internal/metadata"
	"github.com/filingrag/filingrag/internal/model"
)

func TestAttachDir(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("sec_Archives_0000320193-23-000106.txt.md", "Annual report body text.")
	write("AAPL_10-K_0000320193-23-000107.md", "---\nticker: AAPL\n---\n\nalready headered")
	write("no_accession_here.md", "orphan body")
	write("sec_Archives_9999999999-99-999999.txt.md", "no matching metadata row")
	write("ignored.txt", "not markdown")

	records := []model.FilingRecord{
		{Ticker: "AAPL", FormType: "10-K", AccessionNo: "0000320193-23-000106"},
		{Ticker: "AAPL", FormType: "10-K", AccessionNo: "0000320193-23-000107"},
	}

	summary, err := AttachDir(dir, metadata.LookupByAccession(records), false)
	if err != nil {
		t.Fatalf("AttachDir failed: %v", err)
	}

	if summary.Files != 4 {
		t.Errorf("Expected 4 markdown files, got %d", summary.Files)
	}
	if summary.Attached != 1 {
		t.Errorf("Expected 1 attached, got %d", summary.Attached)
	}
	if summary.Skipped != 1 {
		t.Errorf("Expected 1 already headered, got %d", summary.Skipped)
	}
	if summary.Unmatched != 2 {
		t.Errorf("Expected 2 unmatched, got %d", summary.Unmatched)
	}

	attached, _ := os.ReadFile(filepath.Join(dir, "sec_Archives_0000320193-23-000106.txt.md"))
	if !strings.HasPrefix(string(attached), "---\n") {
		t.Error("Expected header prepended")
	}
	if !strings.Contains(string(attached), "Annual report body text.") {
		t.Error("Expected body preserved")
	}

	headered, _ := os.ReadFile(filepath.Join(dir, "AAPL_10-K_0000320193-23-000107.md"))
	if string(headered) != "---\nticker: AAPL\n---\n\nalready headered" {
		t.Error("Expected already-headered file byte-for-byte unchanged")
	}
}

func TestAttachDir_MissingDirectory(t *testing.T) {
	if _, err := AttachDir(filepath.Join(t.TempDir(), "absent"), nil, false); err == nil {
		t.Fatal("Expected error for missing directory")
	}
}
