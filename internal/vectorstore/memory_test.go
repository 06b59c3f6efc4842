package vectorstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStore_GetOrCreateCollection(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, "notes", col.Name())

	// Same name returns the same collection.
	again, err := store.GetOrCreateCollection(ctx, "notes")
	require.NoError(t, err)

	require.NoError(t, col.Add(ctx, []string{"doc"}, []string{"chunk_0"}, []map[string]any{{"source": "a.txt"}}))
	count, err := again.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStore_RejectsInvalidNames(t *testing.T) {
	store := NewMemoryStore(nil)
	ctx := context.Background()

	for _, name := range []string{"", "1starts_with_digit", "has space", "дом"} {
		_, err := store.GetOrCreateCollection(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidCollectionName, "name %q", name)
	}
}

func TestMemoryCollection_QueryEchoesFirstRecords(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "echo")
	require.NoError(t, err)

	docs := []string{"first chunk", "second chunk", "third chunk"}
	ids := []string{"chunk_0", "chunk_1", "chunk_2"}
	metas := []map[string]any{
		{"chunk_id": 0}, {"chunk_id": 1}, {"chunk_id": 2},
	}
	require.NoError(t, col.Add(ctx, docs, ids, metas))

	res, err := col.Query(ctx, []string{"anything", "else"}, 2)
	require.NoError(t, err)

	// One result list per query text, echoing the first records verbatim.
	require.Len(t, res.Documents, 2)
	for qi := 0; qi < 2; qi++ {
		assert.Equal(t, []string{"first chunk", "second chunk"}, res.Documents[qi])
		assert.Equal(t, []string{"chunk_0", "chunk_1"}, res.IDs[qi])
		assert.Equal(t, []float32{standInDistance, standInDistance}, res.Distances[qi])
		assert.Equal(t, 0, res.Metadatas[qi][0]["chunk_id"])
	}
}

func TestMemoryCollection_QueryCapsAtStoredCount(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "small")
	require.NoError(t, err)
	require.NoError(t, col.Add(ctx, []string{"only"}, []string{"chunk_0"}, []map[string]any{{}}))

	res, err := col.Query(ctx, []string{"q"}, 5)
	require.NoError(t, err)
	assert.Len(t, res.Documents[0], 1)
}

func TestMemoryCollection_EmptyQuery(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "empty")
	require.NoError(t, err)

	res, err := col.Query(ctx, []string{"q"}, 3)
	require.NoError(t, err)
	assert.Empty(t, res.Documents[0])
	assert.Empty(t, res.Distances[0])
}

func TestMemoryCollection_QueryRejectsNonPositiveN(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "bounds")
	require.NoError(t, err)
	require.NoError(t, col.Add(ctx, []string{"doc"}, []string{"chunk_0"}, []map[string]any{{}}))

	// The stand-in rejects invalid nResults the same way the real
	// backends do instead of silently returning nothing.
	for _, n := range []int{0, -1} {
		_, err := col.Query(ctx, []string{"q"}, n)
		assert.Error(t, err, "nResults %d", n)
	}
}

func TestMemoryCollection_AddValidatesBatch(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "batch")
	require.NoError(t, err)

	err = col.Add(ctx, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	err = col.Add(ctx, []string{"a", "b"}, []string{"chunk_0"}, []map[string]any{{}, {}})
	assert.ErrorIs(t, err, ErrMismatchedBatch)
}

func TestValidateCollectionName(t *testing.T) {
	valid := []string{"a", "_x", "combined_a_b", "coll_2024", "A1_b2"}
	for _, name := range valid {
		assert.NoError(t, ValidateCollectionName(name), "name %q", name)
	}

	invalid := []string{"", "9lives", "with-dash", "with.dot", "слово",
		strings.Repeat("x", 70)}
	for _, name := range invalid {
		assert.Error(t, ValidateCollectionName(name), "name %q", name)
	}
}

func TestNewStoreWithFallback_DegradesToMemory(t *testing.T) {
	// Unreachable qdrant host forces the stand-in.
	store, degraded := NewStoreWithFallback(ProviderQdrant,
		ChromemConfig{}, QdrantConfig{Host: "127.0.0.1", Port: 1, VectorSize: 4},
		staticEmbedder{}, zap.NewNop())

	assert.True(t, degraded)
	_, ok := store.(*MemoryStore)
	assert.True(t, ok, "fallback store should be the in-memory stand-in")
}

func TestNewStore_UnknownProvider(t *testing.T) {
	_, err := NewStore("redis", ChromemConfig{}, QdrantConfig{}, staticEmbedder{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

// staticEmbedder returns a fixed vector for any input.
type staticEmbedder struct{}

func (staticEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0, 0, 0}
	}
	return out, nil
}

func (staticEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0, 0}, nil
}
