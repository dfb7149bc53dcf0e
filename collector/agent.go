package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/RedJS19J/YT-Analytics/collector/youtube"
	"github.com/RedJS19J/YT-Analytics/internal/models"
	"github.com/RedJS19J/YT-Analytics/shared/config"
	"github.com/RedJS19J/YT-Analytics/shared/storage"
)

// VideoAPI is the slice of the YouTube Data API the collector consumes. A
// test double can stand in for the real client.
type VideoAPI interface {
	// UploadsPlaylistID resolves a channel ID to its uploads playlist ID.
	UploadsPlaylistID(ctx context.Context, channelID string) (string, error)
	// RecentUploads pages through a playlist and returns the IDs of entries
	// published at or after since, newest first.
	RecentUploads(ctx context.Context, playlistID string, since time.Time) ([]string, error)
	// VideoDetails batch-fetches metadata for the given video IDs.
	VideoDetails(ctx context.Context, videoIDs []string) ([]*models.Video, error)
}

// Agent implements the scheduler.Agent interface
type Agent struct {
	config *config.Config
	api    VideoAPI
	csvLog *storage.AnalyticsLog
	clock  func() time.Time
}

func New(cfg *config.Config) *Agent {
	return &Agent{
		config: cfg,
		clock:  time.Now,
	}
}

func (a *Agent) Name() string {
	return "Channel Analytics Collector"
}

func (a *Agent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.api == nil {
		client, err := youtube.NewClient(&a.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		a.api = client
		log.Println("YouTube client initialized")
	}

	if a.csvLog == nil {
		a.csvLog = storage.NewAnalyticsLog(a.config.Output.AnalyticsFile)
	}

	return nil
}

// RunOnce performs one full collection cycle: for each configured channel,
// fetch the window's uploads, classify and aggregate them, and append one row
// to the analytics log. A channel whose fetch fails is skipped and reported at
// the end so the remaining channels still get their rows; a failure writing
// the log aborts immediately.
func (a *Agent) RunOnce(ctx context.Context) error {
	now := a.clock().UTC()
	since := now.AddDate(0, 0, -a.config.WindowDays)

	log.Printf("Collecting uploads since %s for %d channels", since.Format("2006-01-02 15:04"), len(a.config.Channels))

	totalVideos := 0
	var failed []string

	for _, channel := range a.config.Channels {
		videos, err := a.channelVideos(ctx, channel, since)
		if err != nil {
			log.Printf("Warning: failed to collect channel %s (%s): %v", channel.Alias, channel.ID, err)
			failed = append(failed, channel.Alias)
			continue
		}

		report := models.NewChannelReport(channel.Alias, now)
		for _, video := range videos {
			report.Add(video)
		}

		if err := a.csvLog.Append(report); err != nil {
			return fmt.Errorf("failed to append row for channel %s: %w", channel.Alias, err)
		}

		totalVideos += report.TotalCount()
		log.Printf("Channel %s: %d videos (NORMAL %d, SHORT %d, LIVE %d)",
			channel.Alias, report.TotalCount(),
			report.Stats[models.CategoryNormal].Count,
			report.Stats[models.CategoryShort].Count,
			report.Stats[models.CategoryLive].Count)
	}

	log.Printf("Run complete: %d channels, %d failed, %d videos aggregated, log %s",
		len(a.config.Channels), len(failed), totalVideos, a.csvLog.Path())

	if len(failed) > 0 {
		return fmt.Errorf("failed to collect %d of %d channels (%s)",
			len(failed), len(a.config.Channels), strings.Join(failed, ", "))
	}
	return nil
}

// channelVideos fetches the metadata of every upload the channel published
// within the window. An empty window is valid and returns no videos.
func (a *Agent) channelVideos(ctx context.Context, channel config.Channel, since time.Time) ([]*models.Video, error) {
	playlistID, err := a.api.UploadsPlaylistID(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	videoIDs, err := a.api.RecentUploads(ctx, playlistID, since)
	if err != nil {
		return nil, err
	}
	if len(videoIDs) == 0 {
		return nil, nil
	}

	return a.api.VideoDetails(ctx, videoIDs)
}
