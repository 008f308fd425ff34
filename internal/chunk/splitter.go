// Package chunk splits document bodies into overlapping fixed-size windows
// for embedding.
package chunk

import (
	"strings"

	"github.com/filingrag/filingrag/internal/model"
)

// defaultSeparators is the layered boundary preference: paragraph, line,
// sentence-terminal period, word.
var defaultSeparators = []string{"\n\n", "\n", ".", " "}

// Splitter produces overlapping windows of at most Size characters with
// Overlap characters shared between consecutive windows. Window ends prefer
// the earliest separator class that matches; only when none does within the
// window is a hard character cut taken.
type Splitter struct {
	size       int
	overlap    int
	minLength  int
	separators []string
}

// NewSplitter creates a splitter from configuration, applying defaults for
// unset values.
func NewSplitter(cfg model.ChunkConfig) *Splitter {
	size := cfg.Size
	if size <= 0 {
		size = 1000
	}
	overlap := cfg.Overlap
	if overlap <= 0 || overlap >= size {
		overlap = size / 5
	}
	minLength := cfg.MinDocLength
	if minLength <= 0 {
		minLength = 100
	}

	return &Splitter{
		size:       size,
		overlap:    overlap,
		minLength:  minLength,
		separators: defaultSeparators,
	}
}

// Split returns the chunk texts for body, in body order. Bodies shorter than
// the minimum document length yield no chunks.
func (s *Splitter) Split(body string) []string {
	if len(body) < s.minLength {
		return nil
	}

	var chunks []string
	start := 0
	for {
		if start+s.size >= len(body) {
			chunks = append(chunks, body[start:])
			return chunks
		}

		window := body[start : start+s.size]
		cut := s.size
		for _, sep := range s.separators {
			// A boundary inside the overlap zone would stall the
			// window, so only accept matches beyond it.
			if idx := strings.LastIndex(window, sep); idx > s.overlap {
				cut = idx + len(sep)
				break
			}
		}

		chunks = append(chunks, body[start:start+cut])

		next := start + cut - s.overlap
		if next <= start {
			next = start + cut
		}
		start = next
	}
}
