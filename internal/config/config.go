// Package config provides configuration loading for corpus.
package config

import (
	"fmt"

	"github.com/calluna-labs/corpus/internal/logging"
)

// Config is the full corpus configuration tree.
type Config struct {
	Ingest      IngestConfig      `koanf:"ingest"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	Harvest     HarvestConfig     `koanf:"harvest"`
	Logging     logging.Config    `koanf:"logging"`
}

// IngestConfig controls document discovery and chunking.
type IngestConfig struct {
	// DataDir is the directory scanned for input documents.
	DataDir string `koanf:"data_dir"`

	// Extensions lists the file extensions (without dot) to ingest.
	Extensions []string `koanf:"extensions"`

	// ChunkSize is the maximum words per chunk.
	ChunkSize int `koanf:"chunk_size"`

	// MinWords is the word count at which a document gets its own
	// collection instead of being paired with a neighbor.
	MinWords int `koanf:"min_words"`

	// NResults is the default number of results per query.
	NResults int `koanf:"n_results"`
}

// VectorStoreConfig selects and configures the indexing backend.
type VectorStoreConfig struct {
	// Provider is "chromem" (default), "qdrant" or "memory".
	Provider string `koanf:"provider"`

	Chromem ChromemConfig `koanf:"chromem"`
	Qdrant  QdrantConfig  `koanf:"qdrant"`
}

// ChromemConfig configures the embedded chromem-go store.
type ChromemConfig struct {
	Path     string `koanf:"path"`
	Compress bool   `koanf:"compress"`
}

// QdrantConfig configures the external Qdrant backend.
type QdrantConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	VectorSize uint64 `koanf:"vector_size"`
	UseTLS     bool   `koanf:"use_tls"`
}

// EmbeddingsConfig selects and configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider is "tei" (default) or "openai".
	Provider string `koanf:"provider"`

	TEI    TEIConfig    `koanf:"tei"`
	OpenAI OpenAIConfig `koanf:"openai"`
}

// TEIConfig configures a Text Embeddings Inference server.
type TEIConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
}

// OpenAIConfig configures an OpenAI-compatible embedding API.
type OpenAIConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  string `koanf:"api_key"`
}

// HarvestConfig controls the YouTube transcript harvester.
type HarvestConfig struct {
	// Channels lists channel URLs or @handles to harvest.
	Channels []string `koanf:"channels"`

	// LimitVideos enables the per-channel video cap. When false, every
	// upload is processed.
	LimitVideos bool `koanf:"limit_videos"`

	// MaxVideos caps how many videos are processed per channel when
	// LimitVideos is set.
	MaxVideos int `koanf:"max_videos"`

	// Languages are transcript languages to try, in preference order.
	Languages []string `koanf:"languages"`

	// OutputDir is where transcripts are written. Defaults to the
	// ingest data directory so harvested text feeds straight into
	// ingestion.
	OutputDir string `koanf:"output_dir"`

	// APIKey is the YouTube Data API key. Usually supplied via the
	// YOUTUBE_API_KEY environment variable.
	APIKey string `koanf:"api_key"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Ingest.DataDir == "" {
		cfg.Ingest.DataDir = "./data"
	}
	if len(cfg.Ingest.Extensions) == 0 {
		cfg.Ingest.Extensions = []string{"txt"}
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 500
	}
	if cfg.Ingest.MinWords == 0 {
		cfg.Ingest.MinWords = 1000
	}
	if cfg.Ingest.NResults == 0 {
		cfg.Ingest.NResults = 3
	}

	if cfg.VectorStore.Provider == "" {
		cfg.VectorStore.Provider = "chromem"
	}
	if cfg.VectorStore.Chromem.Path == "" {
		cfg.VectorStore.Chromem.Path = "./chroma_db"
	}
	if cfg.VectorStore.Qdrant.Host == "" {
		cfg.VectorStore.Qdrant.Host = "localhost"
	}
	if cfg.VectorStore.Qdrant.Port == 0 {
		cfg.VectorStore.Qdrant.Port = 6334
	}
	if cfg.VectorStore.Qdrant.VectorSize == 0 {
		cfg.VectorStore.Qdrant.VectorSize = 384 // bge-small-en-v1.5 dimensions
	}

	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = "tei"
	}
	if cfg.Embeddings.TEI.BaseURL == "" {
		cfg.Embeddings.TEI.BaseURL = "http://localhost:8080"
	}
	if cfg.Embeddings.TEI.Model == "" {
		cfg.Embeddings.TEI.Model = "BAAI/bge-small-en-v1.5"
	}
	if cfg.Embeddings.OpenAI.Model == "" {
		cfg.Embeddings.OpenAI.Model = "text-embedding-3-small"
	}

	if cfg.Harvest.MaxVideos == 0 {
		cfg.Harvest.MaxVideos = 100
	}
	if len(cfg.Harvest.Languages) == 0 {
		cfg.Harvest.Languages = []string{"ru", "en"}
	}
	if cfg.Harvest.OutputDir == "" {
		cfg.Harvest.OutputDir = cfg.Ingest.DataDir
	}

	cfg.Logging.ApplyDefaults()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("ingest.chunk_size must be positive, got %d", c.Ingest.ChunkSize)
	}
	if c.Ingest.MinWords <= 0 {
		return fmt.Errorf("ingest.min_words must be positive, got %d", c.Ingest.MinWords)
	}
	if c.Ingest.NResults <= 0 {
		return fmt.Errorf("ingest.n_results must be positive, got %d", c.Ingest.NResults)
	}
	if c.Harvest.MaxVideos <= 0 {
		return fmt.Errorf("harvest.max_videos must be positive, got %d", c.Harvest.MaxVideos)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
