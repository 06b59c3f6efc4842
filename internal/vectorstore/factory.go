package vectorstore

import (
	"fmt"

	"go.uber.org/zap"
)

// Providers selectable via configuration.
const (
	ProviderChromem = "chromem"
	ProviderQdrant  = "qdrant"
	ProviderMemory  = "memory"
)

// NewStore creates a Store for the given provider:
//   - "chromem" (default): embedded chromem-go, no external service
//   - "qdrant": external Qdrant over gRPC
//   - "memory": the in-process stand-in (forced demo mode)
func NewStore(provider string, chromemCfg ChromemConfig, qdrantCfg QdrantConfig, embedder Embedder, logger *zap.Logger) (Store, error) {
	switch provider {
	case ProviderChromem, "":
		return NewChromemStore(chromemCfg, embedder, logger)
	case ProviderQdrant:
		return NewQdrantStore(qdrantCfg, embedder, logger)
	case ProviderMemory:
		return NewMemoryStore(logger), nil
	default:
		return nil, fmt.Errorf("%w: unsupported vectorstore provider %q (supported: chromem, qdrant, memory)",
			ErrInvalidConfig, provider)
	}
}

// NewStoreWithFallback creates the configured Store, degrading to the
// in-memory stand-in when the backend cannot be constructed or reached.
// The choice is made once here; callers see a single Store for the whole
// run. The returned bool reports whether the run is degraded.
func NewStoreWithFallback(provider string, chromemCfg ChromemConfig, qdrantCfg QdrantConfig, embedder Embedder, logger *zap.Logger) (Store, bool) {
	store, err := NewStore(provider, chromemCfg, qdrantCfg, embedder, logger)
	if err != nil {
		logger.Warn("vector store unavailable, falling back to in-memory stand-in",
			zap.String("provider", provider),
			zap.Error(err),
		)
		return NewMemoryStore(logger), true
	}
	return store, false
}
