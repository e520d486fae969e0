package services

import (
	"context"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/stats"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"gorm.io/gorm"
)

// Leaderboard views
const (
	ViewAround = "around"
	ViewTop10  = "top10"
	ViewTop50  = "top50"
	ViewAll    = "all"
)

// LeaderboardQuery is the scope and window a leaderboard is requested with
type LeaderboardQuery struct {
	Year  int
	Month time.Month // 0 means the whole year
	View  string
	Page  int
	Size  int
	// Search moves the window around the first matching user
	Search string
}

func (q LeaderboardQuery) validate() error {
	if q.Month < 0 || q.Month > 12 {
		return invalid("month must be between 1 and 12")
	}
	switch q.View {
	case "", ViewAround, ViewTop10, ViewTop50, ViewAll:
		return nil
	}
	return invalid("unknown view %q", q.View)
}

// bounds returns the date range the query covers
func (q LeaderboardQuery) bounds() (time.Time, time.Time) {
	if q.Month == 0 {
		return stats.YearBounds(q.Year)
	}
	return stats.MonthBounds(q.Year, q.Month)
}

// LeaderboardView is a window over a fully ranked leaderboard
type LeaderboardView struct {
	Year         int           `json:"year"`
	Month        time.Month    `json:"month,omitempty"`
	View         string        `json:"view"`
	Participants int           `json:"participants"`
	Entries      []stats.Entry `json:"entries"`
	Me           *stats.Entry  `json:"me,omitempty"`
	Page         int           `json:"page,omitempty"`
	Pages        int           `json:"pages,omitempty"`
	Match        *stats.Entry  `json:"match,omitempty"`
}

// window slices the ranked board according to the query
func window(all []stats.Entry, q LeaderboardQuery) (LeaderboardView, error) {
	view := LeaderboardView{Year: q.Year, Month: q.Month, View: q.View, Participants: len(all)}
	if view.View == "" {
		view.View = ViewAround
	}
	for i := range all {
		if all[i].IsMe {
			me := all[i]
			view.Me = &me
			break
		}
	}

	if q.Search != "" {
		idx, err := stats.Search(all, q.Search)
		if err != nil {
			return LeaderboardView{}, err
		}
		match := all[idx]
		view.Match = &match
		view.Entries = stats.Around(all, idx, stats.AroundMeRadius)
		return view, nil
	}

	switch view.View {
	case ViewTop10:
		view.Entries = stats.Top(all, 10)
	case ViewTop50:
		view.Entries = stats.Top(all, 50)
	case ViewAll:
		view.Page = max(q.Page, 1)
		view.Entries, view.Pages = stats.Page(all, q.Page, q.Size)
	default:
		view.Entries = stats.AroundMe(all, stats.AroundMeRadius)
	}
	return view, nil
}

// rankScope loads pizzas in the query's range for participants and ranks them.
// withBase adds yearly base counts, which only apply to whole-year boards.
func rankScope(ctx context.Context, db *gorm.DB, participants []uint, viewer uint, q LeaderboardQuery, withBase bool) ([]stats.Entry, error) {
	from, to := q.bounds()
	rows, err := store.PizzaRows(ctx, db, store.Scope{From: from, To: to, UserIDs: participants})
	if err != nil {
		return nil, err
	}
	counts := map[uint]int{}
	for _, r := range rows {
		counts[r.UserID]++
	}

	var offsets map[uint]int
	if withBase && q.Month == 0 {
		if offsets, err = store.BaseCounts(ctx, db, q.Year, participants); err != nil {
			return nil, err
		}
	}

	profiles, err := store.LoaderFrom(ctx, db).Load(ctx, participants)
	if err != nil {
		return nil, err
	}
	return stats.Label(stats.Rank(participants, counts, offsets, viewer), profiles), nil
}

// labelled ranks rows globally and attaches profile names
func labelled(ctx context.Context, db *gorm.DB, rows []models.PizzaRow, viewer uint) ([]stats.Entry, error) {
	standings := stats.RankAll(stats.UserIDs(rows), viewer)
	ids := make([]uint, len(standings))
	for i, s := range standings {
		ids[i] = s.UserID
	}
	profiles, err := store.LoaderFrom(ctx, db).Load(ctx, ids)
	if err != nil {
		return nil, err
	}
	return stats.Label(standings, profiles), nil
}
