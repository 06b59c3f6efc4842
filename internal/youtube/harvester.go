package youtube

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/calluna-labs/corpus/internal/config"
)

// fileNameReplacer strips characters that are unsafe in file names on
// common filesystems.
var fileNameReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", "*", "_", "?", "_",
	":", "_", `"`, "_", "<", "_", ">", "_", "|", "_",
)

// SanitizeFileName makes a video title safe to use as a file name.
func SanitizeFileName(title string) string {
	return fileNameReplacer.Replace(title)
}

// Summary reports the outcome of a harvest run.
type Summary struct {
	Channels   int
	Processed  int
	Downloaded int
	Skipped    int
	Failed     int
}

// Harvester downloads channel transcripts into the corpus data
// directory as plain-text files named after each video title.
type Harvester struct {
	client      *Client
	transcripts *TranscriptClient
	config      config.HarvestConfig
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewHarvester creates a Harvester. Calls against YouTube are paced at
// two per second as a courtesy to API limits.
func NewHarvester(client *Client, transcripts *TranscriptClient, cfg config.HarvestConfig, logger *zap.Logger) *Harvester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harvester{
		client:      client,
		transcripts: transcripts,
		config:      cfg,
		limiter:     rate.NewLimiter(rate.Limit(2), 1),
		logger:      logger,
	}
}

// Run harvests every configured channel sequentially. Videos whose
// transcript file already exists are skipped unless force is set.
// Per-video failures (missing or disabled transcripts) are logged and
// counted, never fatal.
func (h *Harvester) Run(ctx context.Context, force bool) (*Summary, error) {
	if err := os.MkdirAll(h.config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	existing, err := existingTranscripts(h.config.OutputDir)
	if err != nil {
		return nil, err
	}
	h.logger.Info("found existing transcripts", zap.Int("count", len(existing)))

	summary := &Summary{}
	for _, channel := range h.config.Channels {
		videos, err := h.channelVideos(ctx, channel)
		if err != nil {
			h.logger.Warn("skipping channel", zap.String("channel", channel), zap.Error(err))
			continue
		}
		summary.Channels++

		for _, video := range videos {
			summary.Processed++

			fileName := SanitizeFileName(video.Title) + ".txt"
			if !force && existing[fileName] {
				summary.Skipped++
				continue
			}

			if err := h.limiter.Wait(ctx); err != nil {
				return summary, err
			}

			if err := h.downloadTranscript(ctx, video, fileName); err != nil {
				summary.Failed++
				h.logger.Warn("transcript unavailable",
					zap.String("video_id", video.ID),
					zap.String("title", video.Title),
					zap.Error(err),
				)
				continue
			}
			summary.Downloaded++
			existing[fileName] = true
		}
	}

	h.logger.Info("harvest complete",
		zap.Int("channels", summary.Channels),
		zap.Int("processed", summary.Processed),
		zap.Int("downloaded", summary.Downloaded),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

// channelVideos resolves a channel reference and lists its uploads up
// to the configured cap.
func (h *Harvester) channelVideos(ctx context.Context, channel string) ([]Video, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	channelID, err := h.client.ResolveChannelID(ctx, channel)
	if err != nil {
		return nil, err
	}

	total, err := h.client.VideoCount(ctx, channelID)
	if err != nil {
		return nil, err
	}
	h.logger.Info("channel resolved",
		zap.String("channel", channel),
		zap.String("channel_id", channelID),
		zap.Int64("total_videos", total),
	)

	maxVideos := 0
	if h.config.LimitVideos {
		maxVideos = h.config.MaxVideos
	}
	videos, err := h.client.ListVideos(ctx, channelID, maxVideos)
	if err != nil {
		return nil, err
	}
	if int64(len(videos)) < total {
		h.logger.Warn("processing subset of channel",
			zap.String("channel", channel),
			zap.Int("listed", len(videos)),
			zap.Int64("total", total),
		)
	}
	return videos, nil
}

func (h *Harvester) downloadTranscript(ctx context.Context, video Video, fileName string) error {
	text, err := h.transcripts.Fetch(ctx, video.ID)
	if err != nil {
		return err
	}

	path := filepath.Join(h.config.OutputDir, fileName)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}
	h.logger.Info("saved transcript", zap.String("path", path))
	return nil
}

// existingTranscripts lists the .txt files already present in dir.
func existingTranscripts(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("reading output directory: %w", err)
	}

	existing := make(map[string]bool)
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			existing[entry.Name()] = true
		}
	}
	return existing, nil
}
