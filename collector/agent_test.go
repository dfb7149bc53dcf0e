package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/RedJS19J/YT-Analytics/internal/models"
	"github.com/RedJS19J/YT-Analytics/shared/config"
	"github.com/RedJS19J/YT-Analytics/shared/storage"
)

// fakeAPI serves canned responses in place of the YouTube Data API.
type fakeAPI struct {
	playlists   map[string]string          // channel ID -> uploads playlist ID
	uploads     map[string][]string        // playlist ID -> video IDs in window
	videos      map[string]*models.Video   // video ID -> metadata
	channelErrs map[string]error           // channel ID -> forced failure
	detailCalls int
}

func (f *fakeAPI) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	if err := f.channelErrs[channelID]; err != nil {
		return "", err
	}
	playlistID, ok := f.playlists[channelID]
	if !ok {
		return "", fmt.Errorf("channel %s not found", channelID)
	}
	return playlistID, nil
}

func (f *fakeAPI) RecentUploads(ctx context.Context, playlistID string, since time.Time) ([]string, error) {
	return f.uploads[playlistID], nil
}

func (f *fakeAPI) VideoDetails(ctx context.Context, videoIDs []string) ([]*models.Video, error) {
	f.detailCalls++
	var videos []*models.Video
	for _, id := range videoIDs {
		if v, ok := f.videos[id]; ok {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

func testAgent(t *testing.T, cfg *config.Config, api *fakeAPI) (*Agent, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analytics.csv")
	agent := New(cfg)
	agent.api = api
	agent.csvLog = storage.NewAnalyticsLog(path)
	agent.clock = func() time.Time {
		return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	return agent, path
}

func testConfig(channels ...config.Channel) *config.Config {
	return &config.Config{
		Channels:   channels,
		WindowDays: 1,
	}
}

func TestRunOnceWritesOneRowPerChannel(t *testing.T) {
	api := &fakeAPI{
		playlists: map[string]string{"UC1": "UU1"},
		uploads:   map[string][]string{"UU1": {"v1", "v2"}},
		videos: map[string]*models.Video{
			"v1": {ID: "v1", DurationSeconds: 300, ViewCount: 1000},
			"v2": {ID: "v2", DurationSeconds: 15, ViewCount: 500},
		},
	}
	agent, path := testAgent(t, testConfig(config.Channel{Alias: "MyChannel", ID: "UC1"}), api)

	if err := agent.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one row", len(lines))
	}
	if lines[1] != "2024-01-01,MyChannel,1,1000,1,500,0,0" {
		t.Errorf("row = %q, want 2024-01-01,MyChannel,1,1000,1,500,0,0", lines[1])
	}
}

func TestRunOnceCountsMatchFetchedIDs(t *testing.T) {
	api := &fakeAPI{
		playlists: map[string]string{"UC1": "UU1"},
		uploads:   map[string][]string{"UU1": {"v1", "v2", "v3", "v4"}},
		videos: map[string]*models.Video{
			"v1": {ID: "v1", DurationSeconds: 300, ViewCount: 10},
			"v2": {ID: "v2", DurationSeconds: 30, ViewCount: 20},
			"v3": {ID: "v3", DurationSeconds: 0, IsLiveBroadcast: true, ViewCount: 30},
			"v4": {ID: "v4", DurationSeconds: 61, ViewCount: 40},
		},
	}
	agent, path := testAgent(t, testConfig(config.Channel{Alias: "A", ID: "UC1"}), api)

	if err := agent.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	rows, err := storage.NewAnalyticsLog(path).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	total := 0
	for _, s := range rows[0].Stats {
		total += s.Count
	}
	if total != 4 {
		t.Errorf("per-category counts sum to %d, want 4 fetched IDs", total)
	}
}

func TestRunOnceEmptyWindowStillWritesRow(t *testing.T) {
	api := &fakeAPI{
		playlists: map[string]string{"UC1": "UU1"},
		uploads:   map[string][]string{},
	}
	agent, path := testAgent(t, testConfig(config.Channel{Alias: "Quiet", ID: "UC1"}), api)

	if err := agent.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if api.detailCalls != 0 {
		t.Errorf("VideoDetails called %d times for an empty window, want 0", api.detailCalls)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header plus one zero row", len(lines))
	}
	if lines[1] != "2024-01-01,Quiet,0,0,0,0,0,0" {
		t.Errorf("row = %q, want all-zero row", lines[1])
	}
}

func TestRunOnceSkipsFailedChannelAndReportsError(t *testing.T) {
	api := &fakeAPI{
		playlists: map[string]string{
			"UC1": "UU1",
			"UC3": "UU3",
		},
		uploads: map[string][]string{
			"UU1": {"v1"},
			"UU3": {"v3"},
		},
		videos: map[string]*models.Video{
			"v1": {ID: "v1", DurationSeconds: 300, ViewCount: 100},
			"v3": {ID: "v3", DurationSeconds: 300, ViewCount: 300},
		},
		channelErrs: map[string]error{
			"UC2": fmt.Errorf("transport failure"),
		},
	}
	cfg := testConfig(
		config.Channel{Alias: "A", ID: "UC1"},
		config.Channel{Alias: "B", ID: "UC2"},
		config.Channel{Alias: "C", ID: "UC3"},
	)
	agent, path := testAgent(t, cfg, api)

	err := agent.RunOnce(context.Background())
	if err == nil {
		t.Fatal("RunOnce succeeded despite a failed channel, want error")
	}
	if !strings.Contains(err.Error(), "B") {
		t.Errorf("error %q does not name the failed channel", err)
	}

	// The remaining channels still got their rows.
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		t.Fatalf("Failed to read log: %v", readErr)
	}
	content := string(data)
	if !strings.Contains(content, "2024-01-01,A,") || !strings.Contains(content, "2024-01-01,C,") {
		t.Errorf("log missing rows for surviving channels:\n%s", content)
	}
	if strings.Contains(content, ",B,") {
		t.Errorf("log has a row for the failed channel:\n%s", content)
	}
}
