package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/calluna-labs/corpus/internal/ingest"
)

var (
	queryN    int
	queryDemo bool
)

var queryCmd = &cobra.Command{
	Use:   "query <collection> <text>...",
	Short: "Run a similarity query against a collection",
	Long: `Query embeds the given text and returns the closest chunks from the
named collection. The collection name is normalized the same way
ingestion normalizes it, so the original file name works as-is.

Examples:
  corpus query recipes "how long to simmer the broth"
  corpus query combined_alpha_beta "foo" -n 5`,
	Args: cobra.MinimumNArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryN, "n-results", "n", 0, "number of results per query (default from config)")
	queryCmd.Flags().BoolVar(&queryDemo, "demo", false, "force the in-memory stand-in backend")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store := newStore(cfg, logger, queryDemo)
	defer store.Close() //nolint:errcheck

	pipeline := ingest.NewPipeline(store, cfg.Ingest, logger)
	collection, texts := args[0], args[1:]

	res, err := pipeline.Query(cmd.Context(), collection, texts, queryN)
	if err != nil {
		return err
	}

	for qi, text := range texts {
		fmt.Printf("query: %s\n", text)
		if len(res.Documents[qi]) == 0 {
			fmt.Println("  no results")
			continue
		}
		for i, doc := range res.Documents[qi] {
			fmt.Printf("  %d. [%s] distance=%.4f\n", i+1, res.IDs[qi][i], res.Distances[qi][i])
			fmt.Printf("     %s\n", truncate(doc, 200))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
