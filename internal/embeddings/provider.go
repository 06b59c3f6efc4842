package embeddings

import (
	"fmt"

	"github.com/calluna-labs/corpus/internal/vectorstore"
	"go.uber.org/zap"
)

// Providers selectable via configuration.
const (
	ProviderTEI    = "tei"
	ProviderOpenAI = "openai"
)

// Config selects and configures an embedding provider.
type Config struct {
	// Provider is "tei" (default) or "openai".
	Provider string

	TEI    TEIConfig
	OpenAI OpenAIConfig
}

// NewEmbedder creates the configured embedding provider.
func NewEmbedder(config Config, logger *zap.Logger) (vectorstore.Embedder, error) {
	switch config.Provider {
	case ProviderTEI, "":
		return NewTEIService(config.TEI, logger)
	case ProviderOpenAI:
		return NewOpenAIService(config.OpenAI, logger)
	default:
		return nil, fmt.Errorf("%w: unsupported embeddings provider %q (supported: tei, openai)",
			ErrInvalidConfig, config.Provider)
	}
}
