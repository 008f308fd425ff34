package crawl

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Pruner removes low-information blocks from a parsed document before text
// extraction: boilerplate navigation, link farms, and fragments too short to
// carry content. A block survives when it holds at least minWords words and
// its non-link share of text stays at or above threshold.
type Pruner struct {
	threshold float64
	minWords  int
}

// NewPruner creates a pruner with the given score threshold and per-block
// word floor.
func NewPruner(threshold float64, minWords int) *Pruner {
	if threshold <= 0 {
		threshold = 0.3
	}
	if minWords <= 0 {
		minWords = 10
	}
	return &Pruner{threshold: threshold, minWords: minWords}
}

// blockSelector lists the element kinds scored as prunable content blocks.
// Headings are exempt: they carry structure, not bulk text.
const blockSelector = "p, li, td, blockquote, pre"

// Prune removes forms outright, then drops every content block scoring below
// the configured floor. The document is modified in place.
func (p *Pruner) Prune(doc *goquery.Document) {
	doc.Find("form").Remove()

	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		// Skip containers that hold further blocks; their leaves are
		// scored individually.
		if sel.Find(blockSelector).Length() > 0 {
			return
		}
		if p.Score(sel) < p.threshold {
			sel.Remove()
		}
	})
}

// Score rates one block in [0,1]: 0 for blocks under the word floor,
// otherwise the share of its text not living inside links.
func (p *Pruner) Score(sel *goquery.Selection) float64 {
	text := strings.TrimSpace(sel.Text())
	words := len(strings.Fields(text))
	if words < p.minWords {
		return 0
	}

	linkChars := 0
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkChars += len(strings.TrimSpace(a.Text()))
	})
	if len(text) == 0 {
		return 0
	}

	linkDensity := float64(linkChars) / float64(len(text))
	if linkDensity > 1 {
		linkDensity = 1
	}
	return 1 - linkDensity
}
