package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/RedJS19J/YT-Analytics/internal/models"
	"github.com/RedJS19J/YT-Analytics/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// maxBatchSize is the largest ID list the Data API accepts per call.
const maxBatchSize = 50

type Client struct {
	service *youtube.Service
}

// NewClient builds an authenticated Data API client. An API key is used when
// configured; otherwise the OAuth device authorization flow runs, with the
// token persisted to cfg.TokenFile across restarts.
func NewClient(cfg *config.YouTubeConfig) (*Client, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{"https://www.googleapis.com/auth/youtube.readonly"},
			Endpoint:     google.Endpoint,
		}

		token, err := getToken(oauthConfig, cfg.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to get OAuth token: %w", err)
		}

		httpClient := oauth2.NewClient(ctx, &tokenSaver{
			config:    oauthConfig,
			token:     token,
			tokenFile: cfg.TokenFile,
		})
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service}, nil
}

// UploadsPlaylistID resolves a channel ID to its uploads playlist ID with a
// single Channels.List call.
func (c *Client) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	resp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to get channel %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("channel %s not found", channelID)
	}

	details := resp.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil || details.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("channel %s has no uploads playlist", channelID)
	}
	return details.RelatedPlaylists.Uploads, nil
}

// RecentUploads returns the IDs of the playlist entries published at or after
// since. Entries come back reverse-chronological, so paging stops as soon as
// an entry precedes the window start rather than scanning the full history.
// A missing playlist is an empty result, not an error.
func (c *Client) RecentUploads(ctx context.Context, playlistID string, since time.Time) ([]string, error) {
	var videoIDs []string
	pageToken := ""

	for {
		call := c.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(maxBatchSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			var apiErr *googleapi.Error
			if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
				// Channels without uploads have no playlist yet.
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list playlist %s: %w", playlistID, err)
		}

		reachedWindowStart := false
		for _, item := range resp.Items {
			publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			if err != nil {
				continue
			}
			if publishedAt.Before(since) {
				reachedWindowStart = true
				continue
			}
			videoIDs = append(videoIDs, item.Snippet.ResourceId.VideoId)
		}

		pageToken = resp.NextPageToken
		if reachedWindowStart || pageToken == "" {
			break
		}
	}

	return videoIDs, nil
}

// VideoDetails fetches metadata for the given video IDs in batches of 50.
// Videos with missing statistics count as zero views.
func (c *Client) VideoDetails(ctx context.Context, videoIDs []string) ([]*models.Video, error) {
	var videos []*models.Video

	for i := 0; i < len(videoIDs); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics", "liveStreamingDetails"}).
			Id(strings.Join(videoIDs[i:end], ",")).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get video details: %w", err)
		}

		for _, item := range resp.Items {
			video := &models.Video{
				ID:           item.Id,
				Title:        item.Snippet.Title,
				ChannelTitle: item.Snippet.ChannelTitle,
				URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id),
			}

			if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				video.PublishedAt = publishedAt
			}

			if item.ContentDetails != nil {
				video.Duration = item.ContentDetails.Duration
				video.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
			}

			// A video counts as a live broadcast if it is live or upcoming,
			// or if it carries live streaming details from a finished stream.
			if item.Snippet.LiveBroadcastContent != "" && item.Snippet.LiveBroadcastContent != "none" {
				video.IsLiveBroadcast = true
			}
			if item.LiveStreamingDetails != nil {
				video.IsLiveBroadcast = true
			}

			if item.Statistics != nil {
				video.ViewCount = int64(item.Statistics.ViewCount)
			}

			videos = append(videos, video)
		}
	}

	return videos, nil
}

func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	// Parse ISO 8601 duration format (e.g., "PT1M30S", "PT45S", "PT2H15M30S")
	re := regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)
	matches := re.FindStringSubmatch(duration)

	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int

	// Hours
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}

	// Minutes
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}

	// Seconds
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}

	return totalSeconds
}
