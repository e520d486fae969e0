// Package stats holds the aggregation routines behind every leaderboard, chart and
// badge. Functions here are pure: callers fetch typed rows and pass the scope in.
package stats

import (
	"errors"
	"sort"
	"strings"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/samber/lo"
)

// ErrNoMatch is returned when a leaderboard search finds nobody
var ErrNoMatch = errors.New("no user matches the search")

const (
	// AroundMeRadius is how many positions are shown above and below the viewer
	AroundMeRadius = 5
	// DefaultPageSize is used when a page size is missing or invalid
	DefaultPageSize = 20
)

// Count is a key with the number of rows that mention it
type Count struct {
	Key   uint `json:"key"`
	Count int  `json:"count"`
}

// Ranked tallies ids and orders them by count, highest first.
// Equal counts keep the order in which the ids were first seen.
func Ranked(ids []uint) []Count {
	counts := lo.CountValues(ids)
	ranked := lo.Map(lo.Uniq(ids), func(id uint, _ int) Count {
		return Count{Key: id, Count: counts[id]}
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}

// PositionOf returns the 1-indexed position of key, or 0 when it is not ranked
func PositionOf(ranked []Count, key uint) int {
	_, idx, ok := lo.FindIndexOf(ranked, func(c Count) bool { return c.Key == key })
	if !ok {
		return 0
	}
	return idx + 1
}

// Standing is one participant's row on a leaderboard
type Standing struct {
	UserID    uint `json:"user_id"`
	Position  int  `json:"position"`
	Count     int  `json:"count"`
	BaseCount int  `json:"base_count"`
	Total     int  `json:"total"`
	IsMe      bool `json:"is_me"`
}

// Rank builds a leaderboard for the given participants. Participants without rows
// score zero, offsets (base counts) are added to the in-app count, and the result is
// stable-sorted by total so ties keep the participants' input order.
func Rank(participants []uint, counts map[uint]int, offsets map[uint]int, viewer uint) []Standing {
	standings := lo.Map(lo.Uniq(participants), func(id uint, _ int) Standing {
		return Standing{
			UserID:    id,
			Count:     counts[id],
			BaseCount: offsets[id],
			Total:     offsets[id] + counts[id],
			IsMe:      id == viewer,
		}
	})
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})
	for i := range standings {
		standings[i].Position = i + 1
	}
	return standings
}

// RankAll ranks every user appearing in userIDs by row count. Base counts are
// never part of a global ranking.
func RankAll(userIDs []uint, viewer uint) []Standing {
	return Rank(lo.Uniq(userIDs), lo.CountValues(userIDs), nil, viewer)
}

// UserIDs extracts the owner of every pizza row
func UserIDs(rows []models.PizzaRow) []uint {
	return lo.Map(rows, func(r models.PizzaRow, _ int) uint { return r.UserID })
}

// Entry is a standing labelled with the participant's names
type Entry struct {
	Standing
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Tier        string `json:"tier,omitempty"`
}

// Label attaches profile names to standings. Unknown ids keep empty names.
func Label(standings []Standing, profiles map[uint]models.Profile) []Entry {
	return lo.Map(standings, func(s Standing, _ int) Entry {
		p := profiles[s.UserID]
		return Entry{Standing: s, Username: p.Handle(), DisplayName: p.DisplayName}
	})
}

var tiers = []string{"gold", "silver", "bronze"}

// WithTiers marks the podium of a group leaderboard
func WithTiers(entries []Entry) []Entry {
	for i := range entries {
		if p := entries[i].Position; p >= 1 && p <= len(tiers) {
			entries[i].Tier = tiers[p-1]
		}
	}
	return entries
}

// AroundMe returns the viewer's row with up to radius rows on each side. When the
// viewer is not on the board the top 2*radius+1 rows are returned instead.
func AroundMe(entries []Entry, radius int) []Entry {
	_, idx, ok := lo.FindIndexOf(entries, func(e Entry) bool { return e.IsMe })
	if !ok {
		return Top(entries, 2*max(radius, 0)+1)
	}
	return Around(entries, idx, radius)
}

// Around returns entries[idx] with up to radius rows on each side
func Around(entries []Entry, idx, radius int) []Entry {
	if idx < 0 || idx >= len(entries) {
		return []Entry{}
	}
	radius = max(radius, 0)
	return entries[max(0, idx-radius):min(len(entries), idx+radius+1)]
}

// Top returns at most the first n entries
func Top(entries []Entry, n int) []Entry {
	if n < 0 {
		n = 0
	}
	return entries[:min(n, len(entries))]
}

// Page returns the 1-indexed page of entries and the number of pages
func Page(entries []Entry, page, size int) ([]Entry, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	pages := (len(entries) + size - 1) / size
	from := (page - 1) * size
	if from >= len(entries) {
		return []Entry{}, pages
	}
	return entries[from:min(len(entries), from+size)], pages
}

// Search returns the index of the first entry whose username or display name
// contains term, ignoring case.
func Search(entries []Entry, term string) (int, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return -1, ErrNoMatch
	}
	_, idx, ok := lo.FindIndexOf(entries, func(e Entry) bool {
		return strings.Contains(strings.ToLower(e.Username), needle) ||
			strings.Contains(strings.ToLower(e.DisplayName), needle)
	})
	if !ok {
		return -1, ErrNoMatch
	}
	return idx, nil
}
