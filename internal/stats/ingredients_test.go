package stats

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func rating(v float64) *float64 { return &v }

func join(pizzaID uint, r *float64, ingredients ...uint) []models.PizzaIngredientRow {
	rows := make([]models.PizzaIngredientRow, len(ingredients))
	for i, ing := range ingredients {
		rows[i] = models.PizzaIngredientRow{PizzaID: pizzaID, IngredientID: ing, UserID: 1, Rating: r}
	}
	return rows
}

func TestIngredientUsage(t *testing.T) {
	var rows []models.PizzaIngredientRow
	rows = append(rows, join(1, rating(8), 10, 20)...)
	rows = append(rows, join(2, nil, 10)...)
	rows = append(rows, join(3, rating(6), 10, 30)...)

	usage := IngredientUsage(rows)

	require.Len(t, usage, 3)
	assert.Equal(t, uint(10), usage[0].IngredientID)
	assert.Equal(t, 3, usage[0].Uses)
	assert.Equal(t, 2, usage[0].Rated)
	assert.InDelta(t, 7.0, usage[0].AverageRating.MustGet(), 0.0001)

	// ties keep first-seen order
	assert.Equal(t, uint(20), usage[1].IngredientID)
	assert.Equal(t, uint(30), usage[2].IngredientID)
}

func TestIngredientUsageWithoutRatings(t *testing.T) {
	usage := IngredientUsage(join(1, nil, 10))

	require.Len(t, usage, 1)
	assert.False(t, usage[0].AverageRating.IsPresent())
	assert.Equal(t, NotAvailable, FormatOptional(usage[0].AverageRating, 1))
}

func TestTopByRating(t *testing.T) {
	var rows []models.PizzaIngredientRow
	for p := uint(1); p <= 5; p++ {
		rows = append(rows, join(p, rating(9), 1, 2)...)
	}
	for p := uint(6); p <= 10; p++ {
		rows = append(rows, join(p, rating(5), 2)...)
	}
	rows = append(rows, join(11, rating(10), 3)...)

	top := TopByRating(IngredientUsage(rows), MinUsesForRating)

	require.Len(t, top, 2)
	assert.Equal(t, uint(1), top[0].IngredientID)
	assert.Equal(t, uint(2), top[1].IngredientID)
	assert.InDelta(t, 7.0, top[1].AverageRating.MustGet(), 0.0001)
}

func TestCombinationsCanonicalOrder(t *testing.T) {
	var rows []models.PizzaIngredientRow
	rows = append(rows, join(1, nil, 4, 2)...)
	rows = append(rows, join(2, nil, 2, 4)...)
	rows = append(rows, join(3, nil, 2, 2, 4)...)
	rows = append(rows, join(4, nil, 9)...)
	rows = append(rows, join(5, nil, 1, 2, 3)...)

	combos := Combinations(rows, PageMinCombination)

	require.Len(t, combos, 2)
	assert.Equal(t, "2-4", combos[0].Key)
	assert.Equal(t, []uint{2, 4}, combos[0].IngredientIDs)
	assert.Equal(t, 3, combos[0].Count)
	assert.Equal(t, "1-2-3", combos[1].Key)

	dashboard := Combinations(rows, DashboardMinCombination)
	require.Len(t, dashboard, 1)
	assert.Equal(t, "2-4", dashboard[0].Key)
}

func TestCombinationKeyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		set := rapid.SliceOfNDistinct(rapid.UintRange(1, 50), 2, 6, rapid.ID[uint]).Draw(t, "set")
		shuffled := rapid.Permutation(set).Draw(t, "shuffled")

		var rows []models.PizzaIngredientRow
		rows = append(rows, join(1, nil, set...)...)
		rows = append(rows, join(2, nil, shuffled...)...)

		combos := Combinations(rows, 1)

		require.Len(t, combos, 1)
		assert.Equal(t, 2, combos[0].Count)
	})
}

func TestCoOccurring(t *testing.T) {
	var rows []models.PizzaIngredientRow
	rows = append(rows, join(1, nil, 1, 2, 3)...)
	rows = append(rows, join(2, nil, 1, 3)...)
	rows = append(rows, join(3, nil, 2, 3)...)

	co := CoOccurring(rows, 1)

	require.Len(t, co, 2)
	assert.Equal(t, Count{Key: 3, Count: 2}, co[0])
	assert.Equal(t, Count{Key: 2, Count: 1}, co[1])
}

func TestForUserAndIngredient(t *testing.T) {
	rows := []models.PizzaIngredientRow{
		{PizzaID: 1, IngredientID: 1, UserID: 1, EatenAt: time.Now()},
		{PizzaID: 2, IngredientID: 2, UserID: 2, EatenAt: time.Now()},
	}

	assert.Len(t, ForUser(rows, 2), 1)
	assert.Len(t, ForIngredient(rows, 1), 1)
	assert.Empty(t, ForIngredient(rows, 3))
}
