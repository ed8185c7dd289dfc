package service

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/inkwell-app/inkwell-server/internal/domain"
	apperrors "github.com/inkwell-app/inkwell-server/internal/errors"
	"github.com/inkwell-app/inkwell-server/internal/store/sqlite"
)

// maxStatsWindowDays bounds the daily series a caller may request.
const maxStatsWindowDays = 90

// dateKeyLayout buckets timestamps into local calendar days.
const dateKeyLayout = "2006-01-02"

// StatsService aggregates the engagement event log, comment timestamps,
// and collection-add timestamps into per-book statistics. It never
// reads the denormalized counters for the daily series; the logs are
// the source of truth there, so counter drift cannot skew growth math.
type StatsService struct {
	store  *sqlite.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewStatsService creates a new statistics service.
func NewStatsService(store *sqlite.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: store, logger: logger, now: time.Now}
}

// dayBuckets accumulates per-day counts keyed by local date.
type dayBuckets map[string]*domain.EngagementCounts

func (b dayBuckets) at(key string) *domain.EngagementCounts {
	c, ok := b[key]
	if !ok {
		c = &domain.EngagementCounts{}
		b[key] = c
	}
	return c
}

// BookStatistics builds the engagement report for one book. Only the
// book's author or a moderator may read it. windowDays is the length
// of the zero-filled daily series ending today.
func (s *StatsService) BookStatistics(ctx context.Context, actorID, bookID string, windowDays int) (*domain.BookStatistics, error) {
	if windowDays <= 0 || windowDays > maxStatsWindowDays {
		return nil, apperrors.Validationf("window_days must be between 1 and %d", maxStatsWindowDays)
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, notFound(err, "book")
	}
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if actor.ID != book.AuthorID && !actor.IsModerator() {
		return nil, apperrors.Forbidden("statistics are visible to the author only")
	}

	now := s.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	windowStart := todayStart.AddDate(0, 0, -(windowDays - 1))

	// One fetch covers both the daily window and the growth
	// comparison; yesterday may precede a 1-day window.
	fetchStart := windowStart
	if yesterdayStart.Before(fetchStart) {
		fetchStart = yesterdayStart
	}

	buckets := dayBuckets{}

	events, err := s.store.GetEventsForBookInRange(ctx, bookID, fetchStart, tomorrowStart)
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		c := buckets.at(ev.OccurredAt.In(now.Location()).Format(dateKeyLayout))
		switch ev.Kind {
		case domain.EventView:
			c.Views++
		case domain.EventLike:
			c.Likes++
		}
	}

	commentTimes, err := s.store.GetCommentTimesForBookInRange(ctx, bookID, fetchStart, tomorrowStart)
	if err != nil {
		return nil, err
	}
	for _, t := range commentTimes {
		buckets.at(t.In(now.Location()).Format(dateKeyLayout)).Comments++
	}

	addTimes, err := s.store.GetCollectionAddTimesForBookInRange(ctx, bookID, fetchStart, tomorrowStart)
	if err != nil {
		return nil, err
	}
	for _, t := range addTimes {
		buckets.at(t.In(now.Location()).Format(dateKeyLayout)).Bookmarks++
	}

	daily := make([]domain.DailyEngagement, 0, windowDays)
	for day := windowStart; day.Before(tomorrowStart); day = day.AddDate(0, 0, 1) {
		var c domain.EngagementCounts
		if b, ok := buckets[day.Format(dateKeyLayout)]; ok {
			c = *b
		}
		daily = append(daily, domain.DailyEngagement{
			Date:       day,
			Label:      day.Format("Jan 02"),
			Views:      c.Views,
			Likes:      c.Likes,
			Comments:   c.Comments,
			Bookmarks:  c.Bookmarks,
			Engagement: c.Total(),
		})
	}

	var today, yesterday domain.EngagementCounts
	if c, ok := buckets[todayStart.Format(dateKeyLayout)]; ok {
		today = *c
	}
	if c, ok := buckets[yesterdayStart.Format(dateKeyLayout)]; ok {
		yesterday = *c
	}

	chapters, err := s.store.ListChaptersForBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	return &domain.BookStatistics{
		BookID:     bookID,
		WindowDays: windowDays,
		Today:      today,
		Yesterday:  yesterday,
		Growth: domain.GrowthRates{
			Views:     domain.Growth(today.Views, yesterday.Views),
			Likes:     domain.Growth(today.Likes, yesterday.Likes),
			Comments:  domain.Growth(today.Comments, yesterday.Comments),
			Bookmarks: domain.Growth(today.Bookmarks, yesterday.Bookmarks),
		},
		Daily:           daily,
		TopChapters:     topChapters(chapters),
		TotalEngagement: today.Total(),
		UpdateDates:     updateDates(chapters, now),
	}, nil
}

// topChapters ranks a book's chapters by views, then likes, then
// position, keeping the first TopChapterLimit.
func topChapters(chapters []*domain.Chapter) []domain.ChapterRank {
	ranks := make([]domain.ChapterRank, 0, len(chapters))
	for _, ch := range chapters {
		ranks = append(ranks, domain.ChapterRank{
			ChapterID: ch.ID,
			Title:     ch.Title,
			Order:     ch.Order,
			Views:     ch.Views,
			Likes:     ch.Likes,
		})
	}
	slices.SortFunc(ranks, func(a, b domain.ChapterRank) int {
		if c := cmp.Compare(b.Views, a.Views); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Likes, a.Likes); c != 0 {
			return c
		}
		return cmp.Compare(a.Order, b.Order)
	})
	if len(ranks) > domain.TopChapterLimit {
		ranks = ranks[:domain.TopChapterLimit]
	}
	return ranks
}

// updateDates lists the distinct days of the current local month on
// which a chapter of the book was published, ascending.
func updateDates(chapters []*domain.Chapter, now time.Time) []int {
	seen := map[int]bool{}
	for _, ch := range chapters {
		created := ch.CreatedAt.In(now.Location())
		if created.Year() == now.Year() && created.Month() == now.Month() {
			seen[created.Day()] = true
		}
	}

	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	slices.Sort(days)
	return days
}
