package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// axisEmbedder maps each distinct text to a distinct unit axis so
// similarity ordering is predictable in tests.
type axisEmbedder struct {
	seen map[string]int
}

func newAxisEmbedder() *axisEmbedder {
	return &axisEmbedder{seen: make(map[string]int)}
}

func (e *axisEmbedder) axis(text string) []float32 {
	idx, ok := e.seen[text]
	if !ok {
		idx = len(e.seen) % 8
		e.seen[text] = idx
	}
	v := make([]float32, 8)
	v[idx] = 1
	return v
}

func (e *axisEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.axis(t)
	}
	return out, nil
}

func (e *axisEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.axis(text), nil
}

func newTestChromemStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(
		ChromemConfig{Path: t.TempDir()},
		newAxisEmbedder(),
		zap.NewNop(),
	)
	require.NoError(t, err)
	return store
}

func TestChromemStore_RequiresEmbedder(t *testing.T) {
	_, err := NewChromemStore(ChromemConfig{Path: t.TempDir()}, nil, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestChromemStore_AddAndQuery(t *testing.T) {
	store := newTestChromemStore(t)
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "recipes")
	require.NoError(t, err)
	require.Equal(t, "recipes", col.Name())

	docs := []string{"chunk one text", "chunk two text"}
	ids := []string{"chunk_0", "chunk_1"}
	metas := []map[string]any{
		{"source": "a.txt", "chunk_id": 0, "chunk_index": 0, "file_id": "a", "collection_name": "recipes"},
		{"source": "a.txt", "chunk_id": 1, "chunk_index": 1, "file_id": "a", "collection_name": "recipes"},
	}
	require.NoError(t, col.Add(ctx, docs, ids, metas))

	count, err := col.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	res, err := col.Query(ctx, []string{"chunk one text"}, 1)
	require.NoError(t, err)
	require.Len(t, res.Documents[0], 1)
	assert.Equal(t, "chunk one text", res.Documents[0][0])
	assert.Equal(t, "chunk_0", res.IDs[0][0])
	assert.Equal(t, 0, res.Metadatas[0][0]["chunk_id"])
	assert.Equal(t, "a.txt", res.Metadatas[0][0]["source"])
	assert.InDelta(t, 0.0, res.Distances[0][0], 0.01, "identical embedding means near-zero distance")
}

func TestChromemStore_QueryCapsAtCollectionSize(t *testing.T) {
	store := newTestChromemStore(t)
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "tiny")
	require.NoError(t, err)
	require.NoError(t, col.Add(ctx,
		[]string{"solo"}, []string{"chunk_0"}, []map[string]any{{"source": "s.txt"}}))

	res, err := col.Query(ctx, []string{"solo"}, 10)
	require.NoError(t, err)
	assert.Len(t, res.Documents[0], 1)
}

func TestChromemStore_QueryEmptyCollection(t *testing.T) {
	store := newTestChromemStore(t)
	ctx := context.Background()

	col, err := store.GetOrCreateCollection(ctx, "nothing_yet")
	require.NoError(t, err)

	res, err := col.Query(ctx, []string{"q"}, 3)
	require.NoError(t, err)
	assert.Empty(t, res.Documents[0])
}

func TestMetadataRoundTrip(t *testing.T) {
	in := map[string]any{
		"source":      "file.txt",
		"chunk_id":    7,
		"chunk_index": 2,
	}
	out := metadataFromString(metadataToString(in))
	assert.Equal(t, "file.txt", out["source"])
	assert.Equal(t, 7, out["chunk_id"])
	assert.Equal(t, 2, out["chunk_index"])
}

func TestMetadataRoundTrip_NumericLookingStrings(t *testing.T) {
	// A source named "2024" is still a source, not a number.
	in := map[string]any{
		"source":   "2024",
		"file_id":  "2024",
		"chunk_id": 3,
	}
	out := metadataFromString(metadataToString(in))
	assert.Equal(t, "2024", out["source"])
	assert.Equal(t, "2024", out["file_id"])
	assert.Equal(t, 3, out["chunk_id"])
}
