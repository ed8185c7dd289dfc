package domain

import (
	"math"
	"time"
)

// TopChapterLimit is how many chapters the ranking keeps.
const TopChapterLimit = 5

// Growth returns the day-over-day percentage change, one decimal.
// A flat zero baseline yields 0; any activity against a zero baseline
// yields 100. The result may be negative.
func Growth(today, yesterday int64) float64 {
	if yesterday == 0 {
		if today > 0 {
			return 100
		}
		return 0
	}
	pct := float64(today-yesterday) / float64(yesterday) * 100
	return math.Round(pct*10) / 10
}

// EngagementCounts groups the four engagement kinds for one period.
type EngagementCounts struct {
	Views     int64 `json:"views"`
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
	Bookmarks int64 `json:"bookmarks"`
}

// Total sums the four kinds.
func (c EngagementCounts) Total() int64 {
	return c.Views + c.Likes + c.Comments + c.Bookmarks
}

// DailyEngagement is one day of the statistics series.
type DailyEngagement struct {
	Date       time.Time `json:"date"`
	Label      string    `json:"label"` // short date, e.g. "Jan 02"
	Views      int64     `json:"views"`
	Likes      int64     `json:"likes"`
	Comments   int64     `json:"comments"`
	Bookmarks  int64     `json:"bookmarks"`
	Engagement int64     `json:"engagement"` // sum of the four kinds
}

// ChapterRank is one entry of the top-chapters leaderboard.
type ChapterRank struct {
	ChapterID string `json:"chapter_id"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
}

// GrowthRates carries day-over-day percentages per engagement kind.
type GrowthRates struct {
	Views     float64 `json:"views"`
	Likes     float64 `json:"likes"`
	Comments  float64 `json:"comments"`
	Bookmarks float64 `json:"bookmarks"`
}

// BookStatistics is the aggregation engine's report for one book.
// Daily always holds exactly the requested window of entries,
// oldest-first and zero-filled for quiet days.
type BookStatistics struct {
	BookID          string            `json:"book_id"`
	WindowDays      int               `json:"window_days"`
	Today           EngagementCounts  `json:"today"`
	Yesterday       EngagementCounts  `json:"yesterday"`
	Growth          GrowthRates       `json:"growth"`
	Daily           []DailyEngagement `json:"daily"`
	TopChapters     []ChapterRank     `json:"top_chapters"`
	TotalEngagement int64             `json:"total_engagement"`
	// UpdateDates lists the days of the current month (1-31) on which
	// at least one chapter of the book was published.
	UpdateDates []int `json:"update_dates"`
}
