package stats

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	// MinUsesForRating is the number of uses an ingredient needs before it can
	// appear in the best-rated list
	MinUsesForRating = 5
	// DashboardMinCombination is the minimum repeat count on the dashboard widget
	DashboardMinCombination = 2
	// PageMinCombination is the minimum repeat count on the combinations page
	PageMinCombination = 1
)

// IngredientStat is the usage of one ingredient over a scope
type IngredientStat struct {
	IngredientID  uint               `json:"ingredient_id"`
	Uses          int                `json:"uses"`
	Rated         int                `json:"rated"`
	AverageRating mo.Option[float64] `json:"average_rating"`
}

// IngredientUsage counts occurrences per ingredient and averages the rating of the
// owning pizzas that have one. Ordered by uses, highest first.
func IngredientUsage(rows []models.PizzaIngredientRow) []IngredientStat {
	sums := map[uint]float64{}
	rated := map[uint]int{}
	for _, r := range rows {
		if r.Rating != nil {
			sums[r.IngredientID] += *r.Rating
			rated[r.IngredientID]++
		}
	}
	ids := lo.Map(rows, func(r models.PizzaIngredientRow, _ int) uint { return r.IngredientID })
	return lo.Map(Ranked(ids), func(c Count, _ int) IngredientStat {
		return IngredientStat{
			IngredientID:  c.Key,
			Uses:          c.Count,
			Rated:         rated[c.Key],
			AverageRating: Ratio(sums[c.Key], float64(rated[c.Key])),
		}
	})
}

// TopByRating keeps ingredients used at least minUses times that have a rating and
// sorts them by average rating, highest first.
func TopByRating(usage []IngredientStat, minUses int) []IngredientStat {
	top := lo.Filter(usage, func(s IngredientStat, _ int) bool {
		return s.Uses >= minUses && s.AverageRating.IsPresent()
	})
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].AverageRating.OrEmpty() > top[j].AverageRating.OrEmpty()
	})
	return top
}

// Combination is a set of ingredients eaten together on the same pizza
type Combination struct {
	Key           string `json:"key"`
	IngredientIDs []uint `json:"ingredient_ids"`
	Count         int    `json:"count"`
}

// IngredientSets groups join rows by pizza. Each set is deduplicated and sorted
// ascending; pizzas keep the order in which they were first seen.
func IngredientSets(rows []models.PizzaIngredientRow) [][]uint {
	byPizza := lo.GroupBy(rows, func(r models.PizzaIngredientRow) uint { return r.PizzaID })
	pizzas := lo.Uniq(lo.Map(rows, func(r models.PizzaIngredientRow, _ int) uint { return r.PizzaID }))
	return lo.Map(pizzas, func(pizzaID uint, _ int) []uint {
		set := lo.Uniq(lo.Map(byPizza[pizzaID], func(r models.PizzaIngredientRow, _ int) uint {
			return r.IngredientID
		}))
		slices.Sort(set)
		return set
	})
}

// CombinationKey is the canonical key of a sorted ingredient set
func CombinationKey(sorted []uint) string {
	parts := lo.Map(sorted, func(id uint, _ int) string { return strconv.FormatUint(uint64(id), 10) })
	return strings.Join(parts, "-")
}

// Combinations counts every canonical set of two or more ingredients and keeps
// those seen at least minCount times, most frequent first.
func Combinations(rows []models.PizzaIngredientRow, minCount int) []Combination {
	var order []string
	found := map[string]*Combination{}
	for _, set := range IngredientSets(rows) {
		if len(set) < 2 {
			continue
		}
		key := CombinationKey(set)
		c, ok := found[key]
		if !ok {
			c = &Combination{Key: key, IngredientIDs: set}
			found[key] = c
			order = append(order, key)
		}
		c.Count++
	}
	combos := lo.FilterMap(order, func(key string, _ int) (Combination, bool) {
		c := found[key]
		return *c, c.Count >= minCount
	})
	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].Count > combos[j].Count
	})
	return combos
}

// CoOccurring counts the other ingredients found on pizzas that contain target
func CoOccurring(rows []models.PizzaIngredientRow, target uint) []Count {
	var ids []uint
	for _, set := range IngredientSets(rows) {
		if !slices.Contains(set, target) {
			continue
		}
		ids = append(ids, lo.Without(set, target)...)
	}
	return Ranked(ids)
}

// ForIngredient keeps the join rows of a single ingredient
func ForIngredient(rows []models.PizzaIngredientRow, ingredientID uint) []models.PizzaIngredientRow {
	return lo.Filter(rows, func(r models.PizzaIngredientRow, _ int) bool {
		return r.IngredientID == ingredientID
	})
}

// ForUser keeps the join rows of pizzas owned by userID
func ForUser(rows []models.PizzaIngredientRow, userID uint) []models.PizzaIngredientRow {
	return lo.Filter(rows, func(r models.PizzaIngredientRow, _ int) bool {
		return r.UserID == userID
	})
}
