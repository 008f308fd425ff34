// Package metadata persists filing metadata as a flat CSV table and derives
// the deterministic artifact names downstream stages key off.
package metadata

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/filingrag/filingrag/internal/model"
)

// columns is the fixed CSV header, in write order.
var columns = []string{
	"ticker",
	"formType",
	"filingType",
	"filedAt",
	"filingDate",
	"accessionNo",
	"cik",
	"companyName",
	"companyNameLong",
	"linkToTxt",
	"linkToHtml",
	"linkToFilingDetails",
	"documentUrl",
}

// Write writes all records to a CSV file at path, overwriting it.
func Write(path string, records []model.FilingRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metadata table: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close metadata table: %w", closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Ticker,
			r.FormType,
			r.FilingType,
			r.FiledAt,
			r.FilingDate,
			r.AccessionNo,
			r.CIK,
			r.CompanyName,
			r.CompanyNameLong,
			r.LinkToTxt,
			r.LinkToHtml,
			r.LinkToFilingDetails,
			r.PrimaryDocumentURL(),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush metadata table: %w", err)
	}
	return nil
}

// Read loads all records from a CSV file at path. Unknown columns are
// ignored; missing columns leave the corresponding fields empty.
func Read(path string) ([]model.FilingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata table: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read metadata table: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Map header names to positions so column order is not load-bearing.
	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.TrimSpace(name)] = i
	}
	get := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]model.FilingRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := model.FilingRecord{
			Ticker:              get(row, "ticker"),
			FormType:            get(row, "formType"),
			FilingType:          get(row, "filingType"),
			FiledAt:             get(row, "filedAt"),
			FilingDate:          get(row, "filingDate"),
			AccessionNo:         get(row, "accessionNo"),
			CIK:                 get(row, "cik"),
			CompanyName:         get(row, "companyName"),
			CompanyNameLong:     get(row, "companyNameLong"),
			LinkToTxt:           get(row, "linkToTxt"),
			LinkToHtml:          get(row, "linkToHtml"),
			LinkToFilingDetails: get(row, "linkToFilingDetails"),
			DocumentURL:         get(row, "documentUrl"),
		}
		if get(row, "documentFormatFiles.documentUrl") != "" {
			rec.DocumentURL = get(row, "documentFormatFiles.documentUrl")
		}
		records = append(records, rec)
	}
	return records, nil
}

// Filename derives the base artifact name (without extension) for a record:
// <ticker>_<formType>_<accessionNo> with slashes replaced by dashes.
// It is a pure function of the record's fields.
func Filename(r model.FilingRecord) string {
	acc := strings.ReplaceAll(r.AccessionNo, "/", "-")
	if acc == "" {
		acc = "unknown"
	}
	ticker := r.Ticker
	if ticker == "" {
		ticker = "unknown"
	}
	form := r.ResolvedFormType()
	if form == "" {
		form = "form"
	}
	return fmt.Sprintf("%s_%s_%s", ticker, form, acc)
}

// LookupByAccession builds an accession-number index over the records.
// Records without an accession number are skipped.
func LookupByAccession(records []model.FilingRecord) map[string]model.FilingRecord {
	lookup := make(map[string]model.FilingRecord, len(records))
	for _, r := range records {
		if r.AccessionNo != "" {
			lookup[r.AccessionNo] = r
		}
	}
	return lookup
}

var accessionInName = regexp.MustCompile(`_(\d+-\d+-\d+)(?:\.txt)?\.md$`)

// AccessionFromFilename extracts the accession number embedded in a cleaned
// filing's filename, e.g. sec_Archives_..._0001045810-22-000067.txt.md.
// Returns "" when the name carries none.
func AccessionFromFilename(name string) string {
	m := accessionInName.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}
