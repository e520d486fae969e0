package stats

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func pizzasFor(userID uint, n int, day time.Time) []models.PizzaRow {
	rows := make([]models.PizzaRow, n)
	for i := range rows {
		rows[i] = models.PizzaRow{UserID: userID, EatenAt: day}
	}
	return rows
}

func order(standings []Standing) []uint {
	ids := make([]uint, len(standings))
	for i, s := range standings {
		ids[i] = s.UserID
	}
	return ids
}

func TestRankGroupVersusGlobal(t *testing.T) {
	const a, b, c = 1, 2, 3
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var rows []models.PizzaRow
	rows = append(rows, pizzasFor(a, 5, day)...)
	rows = append(rows, pizzasFor(b, 5, day)...)
	rows = append(rows, pizzasFor(c, 2, day)...)

	counts := map[uint]int{}
	for _, r := range rows {
		counts[r.UserID]++
	}

	group := Rank([]uint{a, b, c}, counts, map[uint]int{b: 10}, a)
	assert.Equal(t, []uint{b, a, c}, order(group))
	assert.Equal(t, []int{15, 5, 2}, []int{group[0].Total, group[1].Total, group[2].Total})
	assert.True(t, group[1].IsMe)
	assert.Equal(t, 2, group[1].Position)

	global := RankAll(UserIDs(rows), c)
	assert.Equal(t, []uint{a, b, c}, order(global))
	assert.Equal(t, []int{5, 5, 2}, []int{global[0].Total, global[1].Total, global[2].Total})
	assert.Zero(t, global[1].BaseCount)
}

func TestRankIncludesParticipantsWithoutRows(t *testing.T) {
	standings := Rank([]uint{7, 8, 7}, map[uint]int{8: 1}, nil, 7)

	require.Len(t, standings, 2)
	assert.Equal(t, []uint{8, 7}, order(standings))
	assert.Equal(t, 0, standings[1].Total)
	assert.True(t, standings[1].IsMe)
}

func TestRankTotalsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		owners := rapid.SliceOf(rapid.UintRange(1, 8)).Draw(t, "owners")
		participants := rapid.SliceOfNDistinct(rapid.UintRange(1, 8), 0, 8, rapid.ID[uint]).Draw(t, "participants")
		offsets := map[uint]int{}
		for _, p := range participants {
			offsets[p] = rapid.IntRange(0, 20).Draw(t, "offset")
		}
		counts := map[uint]int{}
		for _, o := range owners {
			counts[o]++
		}

		standings := Rank(participants, counts, offsets, 0)

		require.Len(t, standings, len(participants))
		for i, s := range standings {
			assert.Equal(t, offsets[s.UserID]+counts[s.UserID], s.Total)
			assert.Equal(t, i+1, s.Position)
			if i > 0 {
				assert.GreaterOrEqual(t, standings[i-1].Total, s.Total)
			}
		}
	})
}

func entries(n int, me int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{Standing: Standing{UserID: uint(i + 1), Position: i + 1, IsMe: i == me}}
	}
	return out
}

func TestAroundMe(t *testing.T) {
	testCases := []struct {
		name      string
		size, me  int
		wantFirst uint
		wantLen   int
	}{
		{name: "middle of the board", size: 30, me: 15, wantFirst: 11, wantLen: 11},
		{name: "top of the board", size: 30, me: 0, wantFirst: 1, wantLen: 6},
		{name: "bottom of the board", size: 30, me: 29, wantFirst: 25, wantLen: 6},
		{name: "viewer missing", size: 30, me: -1, wantFirst: 1, wantLen: 11},
		{name: "short board", size: 3, me: 1, wantFirst: 1, wantLen: 3},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			window := AroundMe(entries(tt.size, tt.me), AroundMeRadius)
			require.Len(t, window, tt.wantLen)
			assert.Equal(t, tt.wantFirst, window[0].UserID)
		})
	}
}

func TestAroundMeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 60).Draw(t, "n")
		me := rapid.IntRange(0, n-1).Draw(t, "me")

		window := AroundMe(entries(n, me), AroundMeRadius)

		assert.LessOrEqual(t, len(window), 2*AroundMeRadius+1)
		found := false
		for _, e := range window {
			found = found || e.IsMe
		}
		assert.True(t, found, "viewer must be inside the window")
	})
}

func TestTopAndPage(t *testing.T) {
	board := entries(45, -1)

	assert.Len(t, Top(board, 10), 10)
	assert.Len(t, Top(board, 50), 45)

	page, pages := Page(board, 3, 20)
	assert.Equal(t, 3, pages)
	require.Len(t, page, 5)
	assert.Equal(t, uint(41), page[0].UserID)

	page, _ = Page(board, 9, 20)
	assert.Empty(t, page)

	page, _ = Page(board, 0, 0)
	assert.Len(t, page, DefaultPageSize)
}

func TestSearch(t *testing.T) {
	board := []Entry{
		{Username: "margherita", DisplayName: "Marge"},
		{Username: "diavola", DisplayName: "Spicy Dan"},
		{Username: "dan.the.man", DisplayName: "Daniel"},
	}

	idx, err := Search(board, "DAN")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = Search(board, "marg")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = Search(board, "capricciosa")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = Search(board, "  ")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestWithTiers(t *testing.T) {
	board := WithTiers(entries(5, -1))

	assert.Equal(t, "gold", board[0].Tier)
	assert.Equal(t, "silver", board[1].Tier)
	assert.Equal(t, "bronze", board[2].Tier)
	assert.Empty(t, board[3].Tier)
}

func TestLabel(t *testing.T) {
	name := "luigi"
	labelled := Label([]Standing{{UserID: 1}, {UserID: 2}}, map[uint]models.Profile{
		1: {ID: 1, Username: &name, DisplayName: "Luigi"},
	})

	assert.Equal(t, "luigi", labelled[0].Username)
	assert.Equal(t, "Luigi", labelled[0].DisplayName)
	assert.Empty(t, labelled[1].Username)
}
