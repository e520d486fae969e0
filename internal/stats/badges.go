package stats

import (
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/samber/lo"
)

// WeekdayCount is a weekday with the number of pizzas eaten on it
type WeekdayCount struct {
	Weekday time.Weekday `json:"weekday"`
	Name    string       `json:"name"`
	Count   int          `json:"count"`
}

// Dominant picks the weekday with the strictly highest count. Ties go to the
// earliest weekday; nil when every bucket is empty.
func Dominant(buckets [7]int) *WeekdayCount {
	best := -1
	for d, c := range buckets {
		if c > 0 && (best < 0 || c > buckets[best]) {
			best = d
		}
	}
	if best < 0 {
		return nil
	}
	wd := time.Weekday(best)
	return &WeekdayCount{Weekday: wd, Name: wd.String(), Count: buckets[best]}
}

// Badges are the achievements of an ingredient. A rank of 0 means unranked.
type Badges struct {
	AllTimeRank int           `json:"all_time_rank"`
	AllTimeUses int           `json:"all_time_uses"`
	MonthRank   int           `json:"month_rank"`
	MonthUses   int           `json:"month_uses"`
	Weekday     *WeekdayCount `json:"weekday,omitempty"`
}

// IngredientBadges ranks ingredientID against every ingredient in rows, all time
// and within the month containing now, and finds the weekday it is eaten most.
func IngredientBadges(rows []models.PizzaIngredientRow, ingredientID uint, now time.Time) Badges {
	allTime := Ranked(ingredientIDs(rows))
	from, to := MonthBounds(now.Year(), now.Month())
	month := Ranked(ingredientIDs(lo.Filter(rows, func(r models.PizzaIngredientRow, _ int) bool {
		return !r.EatenAt.Before(from) && r.EatenAt.Before(to)
	})))

	own := ForIngredient(rows, ingredientID)
	dates := lo.Map(own, func(r models.PizzaIngredientRow, _ int) time.Time { return r.EatenAt })

	b := Badges{
		AllTimeRank: PositionOf(allTime, ingredientID),
		MonthRank:   PositionOf(month, ingredientID),
		Weekday:     Dominant(ByWeekday(dates)),
	}
	if b.AllTimeRank > 0 {
		b.AllTimeUses = allTime[b.AllTimeRank-1].Count
	}
	if b.MonthRank > 0 {
		b.MonthUses = month[b.MonthRank-1].Count
	}
	return b
}

func ingredientIDs(rows []models.PizzaIngredientRow) []uint {
	return lo.Map(rows, func(r models.PizzaIngredientRow, _ int) uint { return r.IngredientID })
}
