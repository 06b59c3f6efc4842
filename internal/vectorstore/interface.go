// Package vectorstore defines the indexing backend contract and its
// implementations.
//
// A Store hands out named Collections; a Collection accepts batches of
// chunk records and answers similarity queries. Three implementations
// exist: ChromemStore (embedded chromem-go, the default), QdrantStore
// (external Qdrant over gRPC) and MemoryStore (an in-process stand-in
// used when no real backend is reachable).
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Sentinel errors for vector store operations.
var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidCollectionName indicates collection name validation failure.
	ErrInvalidCollectionName = errors.New("invalid collection name")

	// ErrEmptyBatch indicates an Add call with no documents.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrMismatchedBatch indicates documents, ids and metadatas of unequal length.
	ErrMismatchedBatch = errors.New("documents, ids and metadatas must have equal length")

	// ErrConnectionFailed indicates the backend could not be reached.
	ErrConnectionFailed = errors.New("failed to connect to vector store")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")
)

// collectionNamePattern validates collection names: an ASCII letter or
// underscore followed by letters, digits and underscores, at most 63
// characters total.
var collectionNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateCollectionName checks name against the backend identifier grammar.
// Names produced by sanitize.CollectionName always pass.
func ValidateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidCollectionName)
	}
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q must match ^[A-Za-z_][A-Za-z0-9_]{0,62}$", ErrInvalidCollectionName, name)
	}
	return nil
}

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts, one per input.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// QueryResult holds similarity search results as parallel lists-of-lists
// keyed by query index: Documents[i][j] is the j-th hit for query i, with
// its metadata, id and distance at the same position.
type QueryResult struct {
	Documents [][]string
	Metadatas [][]map[string]any
	IDs       [][]string
	Distances [][]float32
}

// Collection is a named group of indexed chunk records.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Add submits a batch of records. The three slices are parallel:
	// documents[i] is stored under ids[i] with metadatas[i]. The batch is
	// best-effort and non-atomic.
	Add(ctx context.Context, documents []string, ids []string, metadatas []map[string]any) error

	// Query runs a similarity search per query text and returns up to
	// nResults hits for each.
	Query(ctx context.Context, queryTexts []string, nResults int) (*QueryResult, error)

	// Count returns the number of records currently in the collection.
	Count(ctx context.Context) (int, error)
}

// Store is the indexing backend. Implementations are selected once at
// startup; callers never branch on the concrete type.
type Store interface {
	// GetOrCreateCollection returns the collection with the given name,
	// creating it if it does not exist. The name must already be
	// normalized (see sanitize.CollectionName).
	GetOrCreateCollection(ctx context.Context, name string) (Collection, error)

	// Close releases backend resources.
	Close() error
}

// validateBatch checks the parallel-slice invariant shared by all
// Collection implementations.
func validateBatch(documents []string, ids []string, metadatas []map[string]any) error {
	if len(documents) == 0 {
		return ErrEmptyBatch
	}
	if len(ids) != len(documents) || len(metadatas) != len(documents) {
		return fmt.Errorf("%w: got %d documents, %d ids, %d metadatas",
			ErrMismatchedBatch, len(documents), len(ids), len(metadatas))
	}
	return nil
}
