// Package index walks cleaned filing documents, chunks their bodies, and
// writes embedded chunks into the vector collection in batches.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/filingrag/filingrag/internal/chunk"
	"github.com/filingrag/filingrag/internal/embed"
	"github.com/filingrag/filingrag/internal/frontmatter"
	"github.com/filingrag/filingrag/internal/store"
)

// Indexer owns the batching state of an indexing run. It accumulates chunks
// across documents and embeds/upserts them whenever the buffer reaches the
// batch size, flushing any remainder at the end of the run.
type Indexer struct {
	splitter  *chunk.Splitter
	embedder  embed.Embedder
	store     store.VectorStore
	batchSize int
	verbose   bool

	texts []string
	metas []map[string]any
	ids   []string

	newID func() string
}

// Summary reports what one indexing run did.
type Summary struct {
	Files   int // markdown files seen
	Indexed int // documents that produced chunks
	Skipped int // documents below the minimum body length
	Chunks  int // chunks written
	Batches int // embed+upsert calls issued
}

// NewIndexer creates an indexer. batchSize values below 1 fall back to 100.
func NewIndexer(splitter *chunk.Splitter, embedder embed.Embedder, vs store.VectorStore, batchSize int, verbose bool) *Indexer {
	if batchSize < 1 {
		batchSize = 100
	}
	return &Indexer{
		splitter:  splitter,
		embedder:  embedder,
		store:     vs,
		batchSize: batchSize,
		verbose:   verbose,
		newID:     uuid.NewString,
	}
}

// IndexDir indexes every markdown file under dir. A missing directory is
// fatal before any processing starts.
func (ix *Indexer) IndexDir(ctx context.Context, dir string) (*Summary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("markdown directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	if err := ix.store.EnsureCollection(ctx, ix.embedder.Dimension()); err != nil {
		return nil, fmt.Errorf("ensure collection: %w", err)
	}

	summary := &Summary{Files: len(files)}
	for _, path := range files {
		n, err := ix.indexFile(ctx, path, summary)
		if err != nil {
			return summary, fmt.Errorf("index %s: %w", filepath.Base(path), err)
		}
		if ix.verbose {
			fmt.Fprintf(os.Stderr, "%s: %d chunks\n", filepath.Base(path), n)
		}
	}

	if err := ix.Flush(ctx, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// indexFile chunks one document and feeds its chunks into the buffer.
// Documents with empty or too-short bodies are skipped silently.
func (ix *Indexer) indexFile(ctx context.Context, path string, summary *Summary) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}

	meta, body, err := frontmatter.Parse(string(content))
	if err != nil {
		return 0, err
	}

	chunks := ix.splitter.Split(body)
	if len(chunks) == 0 {
		summary.Skipped++
		return 0, nil
	}
	summary.Indexed++

	source := filepath.Base(path)
	for i, text := range chunks {
		chunkMeta := make(map[string]any, len(meta)+2)
		for k, v := range meta {
			chunkMeta[k] = v
		}
		chunkMeta["chunk_index"] = i
		chunkMeta["source_doc"] = source

		if err := ix.add(ctx, text, chunkMeta, summary); err != nil {
			return i, err
		}
	}
	return len(chunks), nil
}

// add buffers one chunk and flushes when the buffer is full.
func (ix *Indexer) add(ctx context.Context, text string, meta map[string]any, summary *Summary) error {
	ix.texts = append(ix.texts, text)
	ix.metas = append(ix.metas, meta)
	ix.ids = append(ix.ids, ix.newID())

	if len(ix.texts) >= ix.batchSize {
		return ix.Flush(ctx, summary)
	}
	return nil
}

// Flush embeds the buffered chunks in one batched call, upserts them in one
// batched call, and clears the buffer. An empty buffer is a no-op.
func (ix *Indexer) Flush(ctx context.Context, summary *Summary) error {
	if len(ix.texts) == 0 {
		return nil
	}

	vectors, err := ix.embedder.EmbedBatch(ctx, ix.texts)
	if err != nil {
		return fmt.Errorf("embed batch of %d: %w", len(ix.texts), err)
	}

	batch := make([]store.IndexedChunk, len(ix.texts))
	for i := range ix.texts {
		batch[i] = store.IndexedChunk{
			ID:       ix.ids[i],
			Text:     ix.texts[i],
			Vector:   vectors[i],
			Metadata: ix.metas[i],
		}
	}

	if err := ix.store.Upsert(ctx, batch); err != nil {
		return fmt.Errorf("upsert batch of %d: %w", len(batch), err)
	}

	if summary != nil {
		summary.Chunks += len(batch)
		summary.Batches++
	}

	ix.texts = nil
	ix.metas = nil
	ix.ids = nil
	return nil
}

// Pending returns the number of buffered, not-yet-flushed chunks.
func (ix *Indexer) Pending() int {
	return len(ix.texts)
}
