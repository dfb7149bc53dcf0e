package models

import "time"

// Category buckets a channel upload by how it was produced.
type Category string

const (
	CategoryNormal Category = "NORMAL"
	CategoryShort  Category = "SHORT"
	CategoryLive   Category = "LIVE"
)

// Categories lists every category in the fixed order used by reports.
var Categories = []Category{CategoryNormal, CategoryShort, CategoryLive}

// ShortMaxSeconds is the inclusive duration cutoff separating SHORT from NORMAL.
const ShortMaxSeconds = 60

type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ChannelTitle    string    `json:"channel_title"`
	PublishedAt     time.Time `json:"published_at"`
	Duration        string    `json:"duration"`
	DurationSeconds int       `json:"duration_seconds"`
	IsLiveBroadcast bool      `json:"is_live_broadcast"`
	ViewCount       int64     `json:"view_count"`
	URL             string    `json:"url"`
}

// Classify assigns the video to exactly one category. A live broadcast wins
// regardless of duration; otherwise the short-form cutoff decides.
func (v *Video) Classify() Category {
	if v.IsLiveBroadcast {
		return CategoryLive
	}
	if v.DurationSeconds <= ShortMaxSeconds {
		return CategoryShort
	}
	return CategoryNormal
}
