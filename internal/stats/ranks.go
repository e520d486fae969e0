package stats

import (
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/samber/lo"
)

// HighlightLimit is the worst rank that still earns a highlight
const HighlightLimit = 10

const (
	KindYear       = "year"
	KindMonth      = "month"
	KindPriorYear  = "prior_year"
	KindWeekday    = "weekday"
	KindIngredient = "ingredient"
)

// Highlight is a position of the user in one global scope
type Highlight struct {
	Kind         string        `json:"kind"`
	Rank         int           `json:"rank"`
	Count        int           `json:"count"`
	Year         int           `json:"year,omitempty"`
	Month        time.Month    `json:"month,omitempty"`
	Weekday      *time.Weekday `json:"weekday,omitempty"`
	IngredientID uint          `json:"ingredient_id,omitempty"`
}

func (h Highlight) qualifies() bool {
	return h.Rank > 0 && h.Rank <= HighlightLimit
}

// userRank ranks the owners of rows globally and locates userID
func userRank(userIDs []uint, userID uint) (int, int) {
	standings := RankAll(userIDs, userID)
	s, ok := lo.Find(standings, func(s Standing) bool { return s.IsMe })
	if !ok {
		return 0, 0
	}
	return s.Position, s.Count
}

// IngredientUserRank ranks users by how often they ate ingredientID
func IngredientUserRank(rows []models.PizzaIngredientRow, ingredientID, userID uint) (int, int) {
	own := ForIngredient(rows, ingredientID)
	return userRank(lo.Map(own, func(r models.PizzaIngredientRow, _ int) uint { return r.UserID }), userID)
}

// HomeHighlights returns the user's year, month and favourite-ingredient ranks for
// the year of now. yearPizzas and yearIngredients hold every user's rows for that
// year. Only ranks within the top 10 are returned.
func HomeHighlights(userID uint, now time.Time, yearPizzas []models.PizzaRow, yearIngredients []models.PizzaIngredientRow) []Highlight {
	var out []Highlight

	rank, count := userRank(UserIDs(yearPizzas), userID)
	out = append(out, Highlight{Kind: KindYear, Rank: rank, Count: count, Year: now.Year()})

	from, to := MonthBounds(now.Year(), now.Month())
	rank, count = userRank(UserIDs(InRange(yearPizzas, from, to)), userID)
	out = append(out, Highlight{Kind: KindMonth, Rank: rank, Count: count, Year: now.Year(), Month: now.Month()})

	if fav := Ranked(ingredientIDs(ForUser(yearIngredients, userID))); len(fav) > 0 {
		rank, count = IngredientUserRank(yearIngredients, fav[0].Key, userID)
		out = append(out, Highlight{Kind: KindIngredient, Rank: rank, Count: count, Year: now.Year(), IngredientID: fav[0].Key})
	}

	return lo.Filter(out, func(h Highlight, _ int) bool { return h.qualifies() })
}

// ProfileInput is every global row the profile ranks are computed from
type ProfileInput struct {
	PriorYear       int
	PriorYearPizzas []models.PizzaRow
	Now             time.Time
	YearPizzas      []models.PizzaRow
	YearIngredients []models.PizzaIngredientRow
}

// ProfileRanks is the richer rank set of the profile page. Ranks beyond the top
// 10 are kept for the prior year and the month.
type ProfileRanks struct {
	PriorYear      Highlight   `json:"prior_year"`
	Month          Highlight   `json:"month"`
	Weekdays       []Highlight `json:"weekdays"`
	Ingredients    []Highlight `json:"ingredients"`
	BestIngredient *Highlight  `json:"best_ingredient,omitempty"`
}

// Ranks computes the profile page ranks of userID
func Ranks(userID uint, in ProfileInput) ProfileRanks {
	var pr ProfileRanks

	rank, count := userRank(UserIDs(in.PriorYearPizzas), userID)
	pr.PriorYear = Highlight{Kind: KindPriorYear, Rank: rank, Count: count, Year: in.PriorYear}

	from, to := MonthBounds(in.Now.Year(), in.Now.Month())
	rank, count = userRank(UserIDs(InRange(in.YearPizzas, from, to)), userID)
	pr.Month = Highlight{Kind: KindMonth, Rank: rank, Count: count, Year: in.Now.Year(), Month: in.Now.Month()}

	pr.Weekdays = []Highlight{}
	byDay := lo.GroupBy(in.YearPizzas, func(r models.PizzaRow) time.Weekday { return r.EatenAt.Weekday() })
	for d := time.Sunday; d <= time.Saturday; d++ {
		rank, count := userRank(UserIDs(byDay[d]), userID)
		h := Highlight{Kind: KindWeekday, Rank: rank, Count: count, Year: in.Now.Year(), Weekday: lo.ToPtr(d)}
		if h.qualifies() {
			pr.Weekdays = append(pr.Weekdays, h)
		}
	}

	pr.Ingredients = []Highlight{}
	var best *Highlight
	for _, used := range Ranked(ingredientIDs(ForUser(in.YearIngredients, userID))) {
		rank, count := IngredientUserRank(in.YearIngredients, used.Key, userID)
		h := Highlight{Kind: KindIngredient, Rank: rank, Count: count, Year: in.Now.Year(), IngredientID: used.Key}
		if h.qualifies() {
			pr.Ingredients = append(pr.Ingredients, h)
		}
		if best == nil || h.Rank < best.Rank {
			best = lo.ToPtr(h)
		}
	}
	if len(pr.Ingredients) == 0 {
		pr.BestIngredient = best
	}
	return pr
}
