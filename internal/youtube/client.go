// Package youtube harvests video transcripts from YouTube channels
// into the text corpus.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

var (
	// ErrMissingAPIKey indicates the YouTube Data API key is not set.
	ErrMissingAPIKey = errors.New("youtube api key is required (set YOUTUBE_API_KEY)")

	// ErrChannelNotFound indicates a channel reference could not be
	// resolved to a channel ID.
	ErrChannelNotFound = errors.New("channel not found")
)

// Video identifies one channel upload.
type Video struct {
	ID    string
	Title string
}

// Client wraps the YouTube Data API.
type Client struct {
	service *ytapi.Service
	logger  *zap.Logger
}

// NewClient creates a YouTube Data API client. A missing API key is a
// fatal configuration error.
func NewClient(ctx context.Context, apiKey string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &Client{service: service, logger: logger}, nil
}

// ResolveChannelID resolves a channel reference (full URL, @handle, or
// plain name) to a channel ID.
func (c *Client) ResolveChannelID(ctx context.Context, ref string) (string, error) {
	path := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		path = u.Path
	}
	path = strings.Trim(path, "/")
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}

	switch {
	case strings.HasPrefix(path, "channel/"):
		return strings.TrimPrefix(path, "channel/"), nil
	case strings.HasPrefix(path, "@"):
		return c.searchChannel(ctx, strings.TrimPrefix(path, "@"))
	case strings.HasPrefix(path, "user/"):
		return c.searchChannel(ctx, strings.TrimPrefix(path, "user/"))
	default:
		return c.searchChannel(ctx, path)
	}
}

// searchChannel finds a channel ID by name or handle via search.
func (c *Client) searchChannel(ctx context.Context, name string) (string, error) {
	resp, err := c.service.Search.List([]string{"id", "snippet"}).
		Q(name).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("searching channel %q: %w", name, err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %q", ErrChannelNotFound, name)
	}

	id := resp.Items[0].Id.ChannelId
	c.logger.Info("resolved channel", zap.String("name", name), zap.String("channel_id", id))
	return id, nil
}

// VideoCount returns the total number of videos on a channel.
func (c *Client) VideoCount(ctx context.Context, channelID string) (int64, error) {
	resp, err := c.service.Channels.List([]string{"statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("fetching channel statistics: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrChannelNotFound, channelID)
	}
	return int64(resp.Items[0].Statistics.VideoCount), nil
}

// ListVideos enumerates a channel's uploads, newest first, up to
// maxResults (0 means all).
func (c *Client) ListVideos(ctx context.Context, channelID string, maxResults int) ([]Video, error) {
	resp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("fetching channel details: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrChannelNotFound, channelID)
	}
	uploads := resp.Items[0].ContentDetails.RelatedPlaylists.Uploads

	var videos []Video
	pageToken := ""
	for {
		page, err := c.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(uploads).
			MaxResults(50).
			PageToken(pageToken).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("listing uploads for %s: %w", channelID, err)
		}

		for _, item := range page.Items {
			videos = append(videos, Video{
				ID:    item.Snippet.ResourceId.VideoId,
				Title: item.Snippet.Title,
			})
			if maxResults > 0 && len(videos) >= maxResults {
				return videos, nil
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			return videos, nil
		}
	}
}
