package model

import "regexp"

// FilingRecord is one row of filing metadata as returned by the filings
// search API. Column names mirror the API payload; older exports use
// filingType/filingDate instead of formType/filedAt, so both are carried.
type FilingRecord struct {
	Ticker              string               `json:"ticker"`
	FormType            string               `json:"formType"`
	FilingType          string               `json:"filingType,omitempty"`
	FiledAt             string               `json:"filedAt"`
	FilingDate          string               `json:"filingDate,omitempty"`
	AccessionNo         string               `json:"accessionNo"`
	CIK                 string               `json:"cik"`
	CompanyName         string               `json:"companyName"`
	CompanyNameLong     string               `json:"companyNameLong"`
	LinkToTxt           string               `json:"linkToTxt"`
	LinkToHtml          string               `json:"linkToHtml"`
	LinkToFilingDetails string               `json:"linkToFilingDetails"`
	DocumentFormatFiles []DocumentFormatFile `json:"documentFormatFiles,omitempty"`
	DocumentURL         string               `json:"documentUrl,omitempty"`
}

// DocumentFormatFile is one entry of a filing's document list.
type DocumentFormatFile struct {
	Sequence    string `json:"sequence"`
	Description string `json:"description"`
	DocumentURL string `json:"documentUrl"`
	Type        string `json:"type"`
}

// accessionPattern matches the canonical accession format NNNNNNNNNN-NN-NNNNNN.
var accessionPattern = regexp.MustCompile(`^\d+-\d+-\d+$`)

// ValidAccessionNo reports whether s looks like an accession identifier.
func ValidAccessionNo(s string) bool {
	return accessionPattern.MatchString(s)
}

// ResolvedFormType returns formType, falling back to the legacy filingType column.
func (r *FilingRecord) ResolvedFormType() string {
	if r.FormType != "" {
		return r.FormType
	}
	return r.FilingType
}

// ResolvedFilingDate returns filedAt, falling back to the legacy filingDate column.
func (r *FilingRecord) ResolvedFilingDate() string {
	if r.FiledAt != "" {
		return r.FiledAt
	}
	return r.FilingDate
}

// ResolvedCompanyName prefers the short companyName over companyNameLong.
func (r *FilingRecord) ResolvedCompanyName() string {
	if r.CompanyName != "" {
		return r.CompanyName
	}
	return r.CompanyNameLong
}

// PrimaryDocumentURL returns the first document-list URL, falling back to the
// flat documentUrl column.
func (r *FilingRecord) PrimaryDocumentURL() string {
	if len(r.DocumentFormatFiles) > 0 && r.DocumentFormatFiles[0].DocumentURL != "" {
		return r.DocumentFormatFiles[0].DocumentURL
	}
	return r.DocumentURL
}
