package collector

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/RedJS19J/YT-Analytics/internal/models"
	"github.com/RedJS19J/YT-Analytics/shared/storage"
)

var allVideosHeader = []string{
	"Date", "ChannelName", "VideoType", "VideoID", "Title", "PublishedAt", "DurationSeconds", "Views",
}

var topVideosHeader = []string{
	"Date", "ChannelName", "VideoType", "Title", "VideoID", "Views", "PublishedAt",
}

// CollectAllVideos writes one row per video published in the window to the
// all-videos report file, for every configured channel.
func (a *Agent) CollectAllVideos(ctx context.Context) error {
	now := a.clock().UTC()
	since := now.AddDate(0, 0, -a.config.WindowDays)
	date := now.Format("2006-01-02")

	var failed []string
	for _, channel := range a.config.Channels {
		videos, err := a.channelVideos(ctx, channel, since)
		if err != nil {
			log.Printf("Warning: failed to collect channel %s (%s): %v", channel.Alias, channel.ID, err)
			failed = append(failed, channel.Alias)
			continue
		}

		rows := make([][]string, 0, len(videos))
		for _, video := range videos {
			rows = append(rows, []string{
				date,
				channel.Alias,
				string(video.Classify()),
				video.ID,
				video.Title,
				video.PublishedAt.Format(time.RFC3339),
				strconv.Itoa(video.DurationSeconds),
				strconv.FormatInt(video.ViewCount, 10),
			})
		}

		if err := storage.AppendRows(a.config.Output.AllVideosFile, allVideosHeader, rows); err != nil {
			return fmt.Errorf("failed to append video rows for channel %s: %w", channel.Alias, err)
		}
		log.Printf("Channel %s: %d videos listed", channel.Alias, len(rows))
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to collect %d of %d channels (%s)",
			len(failed), len(a.config.Channels), strings.Join(failed, ", "))
	}
	return nil
}

// CollectTopVideos writes, per channel and category, the most viewed video of
// the window to the top-videos report file. Categories with no uploads in the
// window produce no row.
func (a *Agent) CollectTopVideos(ctx context.Context) error {
	now := a.clock().UTC()
	since := now.AddDate(0, 0, -a.config.WindowDays)
	date := now.Format("2006-01-02")

	var failed []string
	for _, channel := range a.config.Channels {
		videos, err := a.channelVideos(ctx, channel, since)
		if err != nil {
			log.Printf("Warning: failed to collect channel %s (%s): %v", channel.Alias, channel.ID, err)
			failed = append(failed, channel.Alias)
			continue
		}

		top := make(map[models.Category]*models.Video)
		for _, video := range videos {
			category := video.Classify()
			if best, ok := top[category]; !ok || video.ViewCount > best.ViewCount {
				top[category] = video
			}
		}

		var rows [][]string
		for _, category := range models.Categories {
			video, ok := top[category]
			if !ok {
				continue
			}
			rows = append(rows, []string{
				date,
				channel.Alias,
				string(category),
				video.Title,
				video.ID,
				strconv.FormatInt(video.ViewCount, 10),
				video.PublishedAt.Format(time.RFC3339),
			})
		}

		if err := storage.AppendRows(a.config.Output.TopVideosFile, topVideosHeader, rows); err != nil {
			return fmt.Errorf("failed to append top-video rows for channel %s: %w", channel.Alias, err)
		}
		log.Printf("Channel %s: top videos for %d categories", channel.Alias, len(rows))
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to collect %d of %d channels (%s)",
			len(failed), len(a.config.Channels), strings.Join(failed, ", "))
	}
	return nil
}
