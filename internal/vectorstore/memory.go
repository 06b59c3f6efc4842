package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// standInDistance is the fixed placeholder distance reported by the
// in-memory stand-in, which performs no real similarity ranking.
const standInDistance = 0.1

// MemoryStore is an in-process stand-in for a real indexing backend.
// It is selected once at startup when no backend is reachable (or when
// demo mode is forced) so the rest of the pipeline keeps functioning:
// Add stores records, Query echoes the first records back.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
	logger      *zap.Logger
}

// NewMemoryStore creates an empty in-memory stand-in store.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
		logger:      logger,
	}
}

// GetOrCreateCollection returns the named collection, creating it on
// first use.
func (s *MemoryStore) GetOrCreateCollection(ctx context.Context, name string) (Collection, error) {
	if err := ValidateCollectionName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[name]
	if !ok {
		col = &memoryCollection{name: name, logger: s.logger}
		s.collections[name] = col
		s.logger.Info("created in-memory stand-in collection", zap.String("collection", name))
	}
	return col, nil
}

// Close discards nothing: the stand-in has no resources to release.
func (s *MemoryStore) Close() error {
	return nil
}

// memoryCollection retains added records in insertion order.
type memoryCollection struct {
	mu        sync.Mutex
	name      string
	documents []string
	ids       []string
	metadatas []map[string]any
	logger    *zap.Logger
}

func (c *memoryCollection) Name() string {
	return c.name
}

func (c *memoryCollection) Add(ctx context.Context, documents []string, ids []string, metadatas []map[string]any) error {
	if err := validateBatch(documents, ids, metadatas); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.documents = append(c.documents, documents...)
	c.ids = append(c.ids, ids...)
	c.metadatas = append(c.metadatas, metadatas...)

	c.logger.Debug("stored records in stand-in collection",
		zap.String("collection", c.name),
		zap.Int("count", len(documents)),
	)
	return nil
}

// Query returns the first nResults stored records verbatim for every
// query text, with a fixed placeholder distance. There is no ranking;
// this exists so query-demo code keeps functioning in degraded mode.
func (c *memoryCollection) Query(ctx context.Context, queryTexts []string, nResults int) (*QueryResult, error) {
	if nResults <= 0 {
		return nil, fmt.Errorf("nResults must be positive, got %d", nResults)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	n := nResults
	if n > len(c.documents) {
		n = len(c.documents)
	}

	out := &QueryResult{
		Documents: make([][]string, len(queryTexts)),
		Metadatas: make([][]map[string]any, len(queryTexts)),
		IDs:       make([][]string, len(queryTexts)),
		Distances: make([][]float32, len(queryTexts)),
	}
	for qi := range queryTexts {
		out.Documents[qi] = append([]string(nil), c.documents[:n]...)
		out.Metadatas[qi] = append([]map[string]any(nil), c.metadatas[:n]...)
		out.IDs[qi] = append([]string(nil), c.ids[:n]...)
		dists := make([]float32, n)
		for i := range dists {
			dists[i] = standInDistance
		}
		out.Distances[qi] = dists
	}
	return out, nil
}

func (c *memoryCollection) Count(ctx context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.documents), nil
}
