// Package main implements the corpus CLI: document ingestion into a
// vector store and transcript harvesting from YouTube channels.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calluna-labs/corpus/internal/config"
	"github.com/calluna-labs/corpus/internal/embeddings"
	"github.com/calluna-labs/corpus/internal/logging"
	"github.com/calluna-labs/corpus/internal/vectorstore"
)

var (
	configPath string
	dataDir    string
	logLevel   string

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Chunk text documents into vector-store collections",
	Long: `corpus ingests text documents, splits them into sentence-aware
bounded-size chunks, groups them into named collections by word count,
and submits them to a vector-indexing backend for similarity search.
A companion harvester downloads YouTube channel transcripts into the
same corpus.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the log level (debug, info, warn, error)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(harvestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and builds the logger, applying
// persistent flag overrides.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if dataDir != "" {
		if cfg.Harvest.OutputDir == cfg.Ingest.DataDir {
			cfg.Harvest.OutputDir = dataDir
		}
		cfg.Ingest.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))
	return cfg, logger, nil
}

// newStore builds the vector store from config. Demo mode forces the
// in-memory stand-in; otherwise a backend failure degrades to it with
// a warning, so a run always completes.
func newStore(cfg *config.Config, logger *zap.Logger, demo bool) vectorstore.Store {
	if demo {
		logger.Info("demo mode, using in-memory stand-in store")
		return vectorstore.NewMemoryStore(logger)
	}

	embedder, err := embeddings.NewEmbedder(embeddings.Config{
		Provider: cfg.Embeddings.Provider,
		TEI: embeddings.TEIConfig{
			BaseURL: cfg.Embeddings.TEI.BaseURL,
			Model:   cfg.Embeddings.TEI.Model,
		},
		OpenAI: embeddings.OpenAIConfig{
			BaseURL: cfg.Embeddings.OpenAI.BaseURL,
			Model:   cfg.Embeddings.OpenAI.Model,
			APIKey:  cfg.Embeddings.OpenAI.APIKey,
		},
	}, logger)
	if err != nil {
		logger.Warn("embedder unavailable, falling back to in-memory stand-in", zap.Error(err))
		return vectorstore.NewMemoryStore(logger)
	}

	store, degraded := vectorstore.NewStoreWithFallback(
		cfg.VectorStore.Provider,
		vectorstore.ChromemConfig{
			Path:     cfg.VectorStore.Chromem.Path,
			Compress: cfg.VectorStore.Chromem.Compress,
		},
		vectorstore.QdrantConfig{
			Host:       cfg.VectorStore.Qdrant.Host,
			Port:       cfg.VectorStore.Qdrant.Port,
			VectorSize: cfg.VectorStore.Qdrant.VectorSize,
			UseTLS:     cfg.VectorStore.Qdrant.UseTLS,
		},
		embedder,
		logger,
	)
	if degraded {
		fmt.Fprintln(os.Stderr, "Warning: vector store unavailable, running in degraded in-memory mode")
	}
	return store
}
