package embeddings

import (
	"context"
	"fmt"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// OpenAIConfig holds configuration for an OpenAI-compatible embedding
// API (OpenAI itself, or local services such as Ollama and LM Studio).
type OpenAIConfig struct {
	// BaseURL is the API base URL.
	BaseURL string

	// Model is the embedding model name.
	Model string

	// APIKey authenticates the request. Local services that skip
	// authentication accept any non-empty token.
	APIKey string
}

// ApplyDefaults sets default values for unset fields.
func (c *OpenAIConfig) ApplyDefaults() {
	if c.Model == "" {
		c.Model = "text-embedding-3-small"
	}
	if c.APIKey == "" {
		c.APIKey = "none"
	}
}

// OpenAIService generates embeddings through langchaingo's OpenAI
// client.
type OpenAIService struct {
	embedder lcembeddings.Embedder
	logger   *zap.Logger
}

// NewOpenAIService creates an embedding client for an OpenAI-compatible
// API.
func NewOpenAIService(config OpenAIConfig, logger *zap.Logger) (*OpenAIService, error) {
	config.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithEmbeddingModel(config.Model),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(client, lcembeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	return &OpenAIService{embedder: embedder, logger: logger}, nil
}

// EmbedDocuments generates embeddings for multiple texts.
func (s *OpenAIService) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	return vectors, nil
}

// EmbedQuery generates an embedding for a single query text.
func (s *OpenAIService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	vector, err := s.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	return vector, nil
}
