package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calluna-labs/corpus/internal/ingest"
	"github.com/calluna-labs/corpus/internal/watcher"
)

var watchDemo bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the data directory and ingest changed documents",
	Long: `Watch monitors the data directory and re-ingests a document into its
own collection whenever a matching file is created or modified. Runs
until interrupted.

Example:
  corpus watch`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDemo, "demo", false, "force the in-memory stand-in backend")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store := newStore(cfg, logger, watchDemo)
	defer store.Close() //nolint:errcheck

	pipeline := ingest.NewPipeline(store, cfg.Ingest, logger)

	w, err := watcher.New(cfg.Ingest.Extensions, logger)
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, err := w.Watch(ctx, cfg.Ingest.DataDir)
	if err != nil {
		return err
	}
	fmt.Printf("watching %s (ctrl-c to stop)\n", cfg.Ingest.DataDir)

	for event := range events {
		name := filepath.Base(event.Path)
		target := strings.TrimSuffix(name, filepath.Ext(name))
		logger.Info("document changed", zap.String("path", event.Path), zap.String("op", event.Op))

		result, err := pipeline.ProcessOne(ctx, target)
		if err != nil {
			logger.Warn("re-ingest failed", zap.String("path", event.Path), zap.Error(err))
			continue
		}
		fmt.Printf("re-ingested %s into %s (%d chunks)\n", name, result.Collection, result.Chunks)
	}
	return nil
}
