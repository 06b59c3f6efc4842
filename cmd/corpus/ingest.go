package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calluna-labs/corpus/internal/ingest"
)

var (
	ingestFile      string
	ingestAll       bool
	ingestThreshold int
	ingestDemo      bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk documents and load them into the vector store",
	Long: `Ingest reads text files from the data directory, splits each into
sentence-aware chunks, and submits them to the vector store.

By default a single document is processed into its own collection. With
--all, every document is processed: large documents (at or above the
word threshold) each get their own collection, smaller ones are paired
into combined collections.

Examples:
  # Process the first document in the data directory
  corpus ingest

  # Process the document whose name contains "recipes"
  corpus ingest --file recipes

  # Process everything, grouping small files
  corpus ingest --all

  # Lower the standalone-collection threshold
  corpus ingest --all --threshold 500

  # Run without any backend (in-memory stand-in)
  corpus ingest --all --demo`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "name (or substring) of the document to process")
	ingestCmd.Flags().BoolVar(&ingestAll, "all", false, "process all documents under the threshold policy")
	ingestCmd.Flags().IntVar(&ingestThreshold, "threshold", 0, "word-count threshold for standalone collections")
	ingestCmd.Flags().BoolVar(&ingestDemo, "demo", false, "force the in-memory stand-in backend")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if ingestThreshold > 0 {
		cfg.Ingest.MinWords = ingestThreshold
	}

	store := newStore(cfg, logger, ingestDemo)
	defer store.Close() //nolint:errcheck

	pipeline := ingest.NewPipeline(store, cfg.Ingest, logger)
	ctx := cmd.Context()

	if ingestAll {
		results, err := pipeline.ProcessAll(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("collection %-40s documents=%d chunks=%d\n", r.Collection, r.Documents, r.Chunks)
		}
		fmt.Printf("created %d collections\n", len(results))
		return nil
	}

	result, err := pipeline.ProcessOne(ctx, ingestFile)
	if err != nil {
		return err
	}
	fmt.Printf("collection %s documents=%d chunks=%d\n", result.Collection, result.Documents, result.Chunks)
	return nil
}
