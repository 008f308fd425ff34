package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/filingrag/filingrag/internal/model"
)

const (
	idField        = "id"
	embeddingField = "embedding"
	contentField   = "content"

	maxIDLen      = 64
	maxMetaLen    = 512
	maxContentLen = 65535
)

// MilvusStore implements VectorStore on a Milvus collection.
type MilvusStore struct {
	client     *milvusclient.Client
	collection string
}

// NewMilvusStore connects to Milvus and binds the configured collection.
func NewMilvusStore(ctx context.Context, cfg model.StoreConfig) (*MilvusStore, error) {
	c, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus: %w", err)
	}

	return &MilvusStore{
		client:     c,
		collection: cfg.Collection,
	}, nil
}

// EnsureCollection creates the collection, its vector index, and loads it.
// An existing collection is left untouched.
func (s *MilvusStore) EnsureCollection(ctx context.Context, dimension int) error {
	exists, err := s.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if exists {
		return s.load(ctx)
	}

	schema := entity.NewSchema().
		WithName(s.collection).
		WithDescription("chunked filing documents")

	schema.WithField(
		entity.NewField().
			WithName(idField).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(maxIDLen).
			WithIsPrimaryKey(true),
	)
	schema.WithField(
		entity.NewField().
			WithName(embeddingField).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dimension)),
	)
	schema.WithField(
		entity.NewField().
			WithName(contentField).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(maxContentLen),
	)
	for _, name := range metaStringFields {
		schema.WithField(
			entity.NewField().
				WithName(name).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(maxMetaLen),
		)
	}
	for _, name := range metaIntFields {
		schema.WithField(
			entity.NewField().
				WithName(name).
				WithDataType(entity.FieldTypeInt64),
		)
	}

	if err := s.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(s.collection, schema)); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	idx := index.NewIvfFlatIndex(entity.COSINE, 128)
	createTask, err := s.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(s.collection, embeddingField, idx))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := createTask.Await(ctx); err != nil {
		return fmt.Errorf("wait for index: %w", err)
	}

	return s.load(ctx)
}

func (s *MilvusStore) load(ctx context.Context) error {
	loadTask, err := s.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(s.collection))
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("wait for collection load: %w", err)
	}
	return nil
}

// Upsert persists one batch of chunks and flushes so they are immediately
// searchable.
func (s *MilvusStore) Upsert(ctx context.Context, chunks []IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	contents := make([]string, len(chunks))
	strCols := make(map[string][]string, len(metaStringFields))
	intCols := make(map[string][]int64, len(metaIntFields))

	for i, ch := range chunks {
		ids[i] = ch.ID
		vectors[i] = ch.Vector
		contents[i] = truncate(ch.Text, maxContentLen)
		for _, name := range metaStringFields {
			strCols[name] = append(strCols[name], truncate(metaString(ch.Metadata, name), maxMetaLen))
		}
		for _, name := range metaIntFields {
			intCols[name] = append(intCols[name], metaInt(ch.Metadata, name))
		}
	}

	cols := []column.Column{
		column.NewColumnVarChar(idField, ids),
		column.NewColumnFloatVector(embeddingField, len(vectors[0]), vectors),
		column.NewColumnVarChar(contentField, contents),
	}
	for _, name := range metaStringFields {
		cols = append(cols, column.NewColumnVarChar(name, strCols[name]))
	}
	for _, name := range metaIntFields {
		cols = append(cols, column.NewColumnInt64(name, intCols[name]))
	}

	if _, err := s.client.Insert(ctx, milvusclient.NewColumnBasedInsertOption(s.collection, cols...)); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}

	flushTask, err := s.client.Flush(ctx, milvusclient.NewFlushOption(s.collection))
	if err != nil {
		return fmt.Errorf("flush collection: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return fmt.Errorf("wait for flush: %w", err)
	}
	return nil
}

// Search runs a nearest-neighbor query and maps results back to chunks.
func (s *MilvusStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error) {
	outputFields := append([]string{contentField}, metaStringFields...)
	outputFields = append(outputFields, metaIntFields...)

	results, err := s.client.Search(ctx, milvusclient.NewSearchOption(
		s.collection,
		topK,
		[]entity.Vector{entity.FloatVector(vector)},
	).WithANNSField(embeddingField).
		WithSearchParam("nprobe", "16").
		WithOutputFields(outputFields...))
	if err != nil {
		return nil, fmt.Errorf("search collection: %w", err)
	}

	if len(results) == 0 {
		return []SearchResult{}, nil
	}

	parsed := make([]SearchResult, 0, results[0].ResultCount)
	for i := 0; i < results[0].ResultCount; i++ {
		r := SearchResult{
			Score:    results[0].Scores[i],
			Metadata: make(map[string]any),
		}

		if idCol, ok := results[0].IDs.(*column.ColumnVarChar); ok {
			r.ID = idCol.Data()[i]
		}

		for _, field := range results[0].Fields {
			switch col := field.(type) {
			case *column.ColumnVarChar:
				if col.Name() == contentField {
					r.Text = col.Data()[i]
				} else {
					r.Metadata[col.Name()] = col.Data()[i]
				}
			case *column.ColumnInt64:
				r.Metadata[col.Name()] = col.Data()[i]
			}
		}

		parsed = append(parsed, r)
	}
	return parsed, nil
}

// Count returns the collection's row count.
func (s *MilvusStore) Count(ctx context.Context) (int64, error) {
	stats, err := s.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(s.collection))
	if err != nil {
		return 0, fmt.Errorf("collection stats: %w", err)
	}
	if val, ok := stats["row_count"]; ok {
		return strconv.ParseInt(val, 10, 64)
	}
	return 0, nil
}

// Drop removes the whole collection.
func (s *MilvusStore) Drop(ctx context.Context) error {
	if err := s.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(s.collection)); err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	return nil
}

// Close closes the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
