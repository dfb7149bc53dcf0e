package models

import "time"

// CategoryStats accumulates the per-category totals for one channel and run.
type CategoryStats struct {
	Count   int   `json:"count"`
	ViewSum int64 `json:"view_sum"`
}

// ChannelReport is one channel's aggregate for a single run. Stats always
// contains an entry for every category, zero-filled when nothing matched.
type ChannelReport struct {
	Date  time.Time                   `json:"date"`
	Alias string                      `json:"alias"`
	Stats map[Category]*CategoryStats `json:"stats"`
}

func NewChannelReport(alias string, date time.Time) *ChannelReport {
	stats := make(map[Category]*CategoryStats, len(Categories))
	for _, c := range Categories {
		stats[c] = &CategoryStats{}
	}
	return &ChannelReport{Date: date, Alias: alias, Stats: stats}
}

// Add classifies the video and folds it into the matching category.
func (r *ChannelReport) Add(v *Video) Category {
	category := v.Classify()
	s := r.Stats[category]
	s.Count++
	s.ViewSum += v.ViewCount
	return category
}

// TotalCount returns the number of videos folded into the report.
func (r *ChannelReport) TotalCount() int {
	total := 0
	for _, s := range r.Stats {
		total += s.Count
	}
	return total
}
