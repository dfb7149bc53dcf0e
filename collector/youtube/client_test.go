package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		name     string
		duration string
		expected int
	}{
		{"Empty", "", 0},
		{"Seconds only", "PT45S", 45},
		{"Minutes only", "PT2M", 120},
		{"Hours only", "PT1H", 3600},
		{"Minutes and seconds", "PT1M30S", 90},
		{"Hours and minutes", "PT2H15M", 8100},
		{"Full format", "PT2H15M30S", 8130},
		{"Exactly one minute", "PT1M", 60},
		{"Invalid format", "invalid", 0},
		{"No time components", "PT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseDurationSeconds(tt.duration)
			if result != tt.expected {
				t.Errorf("parseDurationSeconds(%s) = %d, want %d", tt.duration, result, tt.expected)
			}
		})
	}
}

// fakeService builds a Client whose underlying service talks to the handler.
func fakeService(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service, err := youtubeapi.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return &Client{service: service}
}

func TestUploadsPlaylistID(t *testing.T) {
	client := fakeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/channels" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"items":[{"id":"UC1","contentDetails":{"relatedPlaylists":{"uploads":"UU1"}}}]}`)
	}))

	playlistID, err := client.UploadsPlaylistID(context.Background(), "UC1")
	if err != nil {
		t.Fatalf("UploadsPlaylistID failed: %v", err)
	}
	if playlistID != "UU1" {
		t.Errorf("playlistID = %q, want UU1", playlistID)
	}
}

func TestUploadsPlaylistIDUnknownChannel(t *testing.T) {
	client := fakeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))

	if _, err := client.UploadsPlaylistID(context.Background(), "UCmissing"); err == nil {
		t.Error("UploadsPlaylistID succeeded for an unknown channel, want error")
	}
}

func TestRecentUploadsStopsAtWindowStart(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	pages := map[string]string{
		// First page: both entries inside the window, more pages available.
		"": `{"items":[
			{"snippet":{"publishedAt":"2024-01-02T10:00:00Z","resourceId":{"videoId":"v1"}}},
			{"snippet":{"publishedAt":"2024-01-01T18:00:00Z","resourceId":{"videoId":"v2"}}}
		],"nextPageToken":"p2"}`,
		// Second page: one entry in window, one older. Paging must stop here.
		"p2": `{"items":[
			{"snippet":{"publishedAt":"2024-01-01T06:00:00Z","resourceId":{"videoId":"v3"}}},
			{"snippet":{"publishedAt":"2023-12-28T10:00:00Z","resourceId":{"videoId":"v4"}}}
		],"nextPageToken":"p3"}`,
		"p3": `{"items":[
			{"snippet":{"publishedAt":"2023-12-01T10:00:00Z","resourceId":{"videoId":"v5"}}}
		]}`,
	}

	var requested []string
	client := fakeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("pageToken")
		requested = append(requested, token)
		fmt.Fprint(w, pages[token])
	}))

	videoIDs, err := client.RecentUploads(context.Background(), "UU1", since)
	if err != nil {
		t.Fatalf("RecentUploads failed: %v", err)
	}

	if len(videoIDs) != 3 || videoIDs[0] != "v1" || videoIDs[1] != "v2" || videoIDs[2] != "v3" {
		t.Errorf("videoIDs = %v, want [v1 v2 v3]", videoIDs)
	}
	if len(requested) != 2 {
		t.Errorf("requested %d pages (%v), want paging to stop after the second", len(requested), requested)
	}
}

func TestRecentUploadsMissingPlaylist(t *testing.T) {
	client := fakeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"The playlist identified with the request's playlistId parameter cannot be found.","errors":[{"reason":"playlistNotFound"}]}}`)
	}))

	videoIDs, err := client.RecentUploads(context.Background(), "UUmissing", time.Now())
	if err != nil {
		t.Fatalf("RecentUploads failed: %v", err)
	}
	if len(videoIDs) != 0 {
		t.Errorf("videoIDs = %v, want empty result for a missing playlist", videoIDs)
	}
}

func TestVideoDetails(t *testing.T) {
	client := fakeService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"items":[
			{"id":"v1","snippet":{"title":"Long one","channelTitle":"Chan","publishedAt":"2024-01-01T10:00:00Z","liveBroadcastContent":"none"},
			 "contentDetails":{"duration":"PT5M"},"statistics":{"viewCount":"1000"}},
			{"id":"v2","snippet":{"title":"Was live","liveBroadcastContent":"none"},
			 "contentDetails":{"duration":"PT2H"},"statistics":{"viewCount":"50"},
			 "liveStreamingDetails":{"actualStartTime":"2024-01-01T08:00:00Z"}},
			{"id":"v3","snippet":{"title":"No stats","liveBroadcastContent":"none"},
			 "contentDetails":{"duration":"PT30S"}}
		]}`)
	}))

	videos, err := client.VideoDetails(context.Background(), []string{"v1", "v2", "v3"})
	if err != nil {
		t.Fatalf("VideoDetails failed: %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("got %d videos, want 3", len(videos))
	}

	if videos[0].DurationSeconds != 300 || videos[0].ViewCount != 1000 || videos[0].IsLiveBroadcast {
		t.Errorf("v1 = %+v, want 300s, 1000 views, not live", videos[0])
	}
	if !videos[1].IsLiveBroadcast {
		t.Errorf("v2 should be flagged live from its streaming details")
	}
	if videos[2].ViewCount != 0 {
		t.Errorf("v3 views = %d, want 0 for missing statistics", videos[2].ViewCount)
	}
}
