package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calluna-labs/corpus/internal/youtube"
)

var (
	harvestMax   int
	harvestForce bool
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [channel...]",
	Short: "Download YouTube channel transcripts into the data directory",
	Long: `Harvest resolves each channel reference (URL, @handle, or name),
enumerates its uploads and saves each video's transcript as a text
file named after the video title. Videos whose transcript file already
exists are skipped unless --force is set.

Channels may be given as arguments or configured under harvest.channels.
Requires the YOUTUBE_API_KEY environment variable.

Examples:
  corpus harvest https://www.youtube.com/@somechannel
  corpus harvest --max 20 @somechannel
  corpus harvest --force`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().IntVar(&harvestMax, "max", 0, "maximum videos to process per channel")
	harvestCmd.Flags().BoolVar(&harvestForce, "force", false, "re-download transcripts that already exist")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if len(args) > 0 {
		cfg.Harvest.Channels = args
	}
	if len(cfg.Harvest.Channels) == 0 {
		return fmt.Errorf("no channels given (pass as arguments or set harvest.channels)")
	}
	if harvestMax > 0 {
		cfg.Harvest.LimitVideos = true
		cfg.Harvest.MaxVideos = harvestMax
	}

	ctx := cmd.Context()
	client, err := youtube.NewClient(ctx, cfg.Harvest.APIKey, logger)
	if err != nil {
		return err
	}

	harvester := youtube.NewHarvester(
		client,
		youtube.NewTranscriptClient(cfg.Harvest.Languages),
		cfg.Harvest,
		logger,
	)

	summary, err := harvester.Run(ctx, harvestForce)
	if err != nil {
		return err
	}

	fmt.Printf("channels=%d processed=%d downloaded=%d skipped=%d failed=%d\n",
		summary.Channels, summary.Processed, summary.Downloaded, summary.Skipped, summary.Failed)
	return nil
}
