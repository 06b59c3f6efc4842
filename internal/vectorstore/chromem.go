package vectorstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

// ChromemConfig holds configuration for the embedded chromem-go backend.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	// Default: "./chroma_db"
	Path string

	// Compress enables gzip compression for stored data.
	Compress bool
}

// ApplyDefaults sets default values for unset fields.
func (c *ChromemConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = "./chroma_db"
	}
}

// ChromemStore implements Store using chromem-go, an embeddable vector
// database with no external service dependency. Data persists to gob
// files under the configured path.
type ChromemStore struct {
	db       *chromem.DB
	embedder Embedder
	config   ChromemConfig
	logger   *zap.Logger
}

// NewChromemStore creates a ChromemStore with the given configuration.
func NewChromemStore(config ChromemConfig, embedder Embedder, logger *zap.Logger) (*ChromemStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	config.ApplyDefaults()

	path, err := expandPath(config.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding path: %w", err)
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, config.Compress)
	if err != nil {
		return nil, fmt.Errorf("%w: creating chromem DB: %v", ErrConnectionFailed, err)
	}

	logger.Info("chromem store initialized",
		zap.String("path", path),
		zap.Bool("compress", config.Compress),
	)

	return &ChromemStore{
		db:       db,
		embedder: embedder,
		config:   config,
		logger:   logger,
	}, nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// embeddingFunc adapts the Embedder interface to chromem's callback.
func (s *ChromemStore) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return s.embedder.EmbedQuery(ctx, text)
	}
}

// GetOrCreateCollection returns the named collection, creating it on
// first use.
func (s *ChromemStore) GetOrCreateCollection(ctx context.Context, name string) (Collection, error) {
	if err := ValidateCollectionName(name); err != nil {
		return nil, err
	}

	col, err := s.db.GetOrCreateCollection(name, nil, s.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("getting/creating collection %s: %w", name, err)
	}

	return &chromemCollection{name: name, col: col, store: s}, nil
}

// Close is a no-op: chromem persists on every write.
func (s *ChromemStore) Close() error {
	return nil
}

// chromemCollection implements Collection over a chromem.Collection.
type chromemCollection struct {
	name  string
	col   *chromem.Collection
	store *ChromemStore
}

func (c *chromemCollection) Name() string {
	return c.name
}

func (c *chromemCollection) Add(ctx context.Context, documents []string, ids []string, metadatas []map[string]any) error {
	if err := validateBatch(documents, ids, metadatas); err != nil {
		return err
	}

	// Embed in one batch so a partial embedding failure aborts the whole
	// Add instead of leaving a half-written collection.
	embeddings, err := c.store.embedder.EmbedDocuments(ctx, documents)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	docs := make([]chromem.Document, len(documents))
	for i := range documents {
		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   documents[i],
			Metadata:  metadataToString(metadatas[i]),
			Embedding: embeddings[i],
		}
	}

	if err := c.col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("adding documents to %s: %w", c.name, err)
	}

	c.store.logger.Debug("added documents to chromem collection",
		zap.String("collection", c.name),
		zap.Int("count", len(docs)),
	)
	return nil
}

func (c *chromemCollection) Query(ctx context.Context, queryTexts []string, nResults int) (*QueryResult, error) {
	if nResults <= 0 {
		return nil, fmt.Errorf("nResults must be positive, got %d", nResults)
	}

	out := &QueryResult{
		Documents: make([][]string, len(queryTexts)),
		Metadatas: make([][]map[string]any, len(queryTexts)),
		IDs:       make([][]string, len(queryTexts)),
		Distances: make([][]float32, len(queryTexts)),
	}

	for qi, text := range queryTexts {
		// chromem requires nResults <= document count.
		n := nResults
		if count := c.col.Count(); count < n {
			n = count
		}
		if n == 0 {
			out.Documents[qi] = []string{}
			out.Metadatas[qi] = []map[string]any{}
			out.IDs[qi] = []string{}
			out.Distances[qi] = []float32{}
			continue
		}

		results, err := c.col.Query(ctx, text, n, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("querying collection %s: %w", c.name, err)
		}

		docs := make([]string, len(results))
		metas := make([]map[string]any, len(results))
		ids := make([]string, len(results))
		dists := make([]float32, len(results))
		for i, r := range results {
			docs[i] = r.Content
			metas[i] = metadataFromString(r.Metadata)
			ids[i] = r.ID
			dists[i] = 1 - r.Similarity
		}
		out.Documents[qi] = docs
		out.Metadatas[qi] = metas
		out.IDs[qi] = ids
		out.Distances[qi] = dists
	}

	return out, nil
}

func (c *chromemCollection) Count(ctx context.Context) (int, error) {
	return c.col.Count(), nil
}

// metadataToString converts metadata to chromem's string map.
func metadataToString(m map[string]any) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			out[k] = val
		case int:
			out[k] = strconv.Itoa(val)
		case int64:
			out[k] = strconv.FormatInt(val, 10)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// integerMetadataKeys names the record metadata fields stored as
// integers. Only these are parsed back on read; any other value stays
// a string even when it looks numeric.
var integerMetadataKeys = map[string]bool{
	"chunk_id":    true,
	"chunk_index": true,
}

// metadataFromString converts chromem's string map back, recovering
// integers for the keys known to hold them.
func metadataFromString(m map[string]string) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if integerMetadataKeys[k] {
			if n, err := strconv.Atoi(v); err == nil {
				out[k] = n
				continue
			}
		}
		out[k] = v
	}
	return out
}
