package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/RedJS19J/YT-Analytics/internal/models"
)

// AnalyticsHeader is the fixed column order of the analytics log.
var AnalyticsHeader = []string{
	"Date", "ChannelName",
	"NORMAL_Count", "NORMAL_Views",
	"SHORT_Count", "SHORT_Views",
	"LIVE_Count", "LIVE_Views",
}

// AnalyticsLog is the append-only CSV file holding one summary row per channel
// per run. Rows are never rewritten or deduplicated; re-running for the same
// date appends a duplicate row.
type AnalyticsLog struct {
	path string
}

func NewAnalyticsLog(path string) *AnalyticsLog {
	return &AnalyticsLog{path: path}
}

func (l *AnalyticsLog) Path() string {
	return l.path
}

// Append writes one row for the report, creating the file with a header row
// first if it does not exist yet.
func (l *AnalyticsLog) Append(report *models.ChannelReport) error {
	row := make([]string, 0, len(AnalyticsHeader))
	row = append(row, report.Date.Format("2006-01-02"), report.Alias)
	for _, category := range models.Categories {
		s := report.Stats[category]
		row = append(row, strconv.Itoa(s.Count), strconv.FormatInt(s.ViewSum, 10))
	}
	return AppendRows(l.path, AnalyticsHeader, [][]string{row})
}

// AnalyticsRow is one parsed row of the analytics log.
type AnalyticsRow struct {
	Date        time.Time
	ChannelName string
	Stats       map[models.Category]models.CategoryStats
}

// ReadAll parses the whole log back into rows, for report generation.
func (l *AnalyticsLog) ReadAll() ([]AnalyticsRow, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics log: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse analytics log: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []AnalyticsRow
	for i, record := range records[1:] { // skip header
		if len(record) != len(AnalyticsHeader) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i+2, len(record), len(AnalyticsHeader))
		}
		date, err := time.Parse("2006-01-02", record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d has an invalid date %q: %w", i+2, record[0], err)
		}
		row := AnalyticsRow{
			Date:        date,
			ChannelName: record[1],
			Stats:       make(map[models.Category]models.CategoryStats, len(models.Categories)),
		}
		for j, category := range models.Categories {
			count, err := strconv.Atoi(record[2+j*2])
			if err != nil {
				return nil, fmt.Errorf("row %d has an invalid %s count: %w", i+2, category, err)
			}
			views, err := strconv.ParseInt(record[3+j*2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d has an invalid %s view sum: %w", i+2, category, err)
			}
			row.Stats[category] = models.CategoryStats{Count: count, ViewSum: views}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRows appends CSV rows to path, writing the header first when the file
// is new or empty. The file is opened in append mode for each call.
func AppendRows(path string, header []string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", path, err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}
