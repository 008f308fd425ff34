package normalize

import "regexp"

// Rule is one named rewrite step. Rules run in declaration order; the header
// rules must run before blank-line collapsing, since collapsing does not
// re-trigger header matches.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Apply runs the rule once over text.
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, r.Replace)
}

// Rules is the ordered header-standardization pipeline. Each rule is
// idempotent on its own output: rewritten lines start with heading markers
// and no longer match the line-start literals.
var Rules = []Rule{
	{
		Name:    "table-of-contents",
		Pattern: regexp.MustCompile(`(?m)^Table of Contents`),
		Replace: "## Table of Contents",
	},
	{
		Name:    "part-header",
		Pattern: regexp.MustCompile(`(?m)^PART\s+([IVXLC]+)`),
		Replace: "## PART $1 —",
	},
	{
		Name:    "item-header",
		Pattern: regexp.MustCompile(`(?m)^Item\s+(\d+)[.:]?\s+(.*)`),
		Replace: "### Item $1: $2",
	},
	{
		Name:    "underlined-caps-header",
		Pattern: regexp.MustCompile(`(?m)^([A-Z][A-Z\s]+)\n[-=]{3,}`),
		Replace: "#### $1",
	},
	{
		Name:    "collapse-blank-lines",
		Pattern: regexp.MustCompile(`\n{3,}`),
		Replace: "\n\n",
	},
}

// Rewrite standardizes section headers and collapses excess blank lines by
// applying every rule in order. Text with no matches passes through
// unchanged.
func Rewrite(text string) string {
	for _, rule := range Rules {
		text = rule.Apply(text)
	}
	return text
}
