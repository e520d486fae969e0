package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredientCatalog(t *testing.T) {
	db := setupTestDB(t)
	ingredients := NewIngredientService(db)
	ctx := context.Background()

	_, err := ingredients.Create(ctx, "Olive")
	require.NoError(t, err)
	_, err = ingredients.Create(ctx, "  Acciughe ")
	require.NoError(t, err)

	_, err = ingredients.Create(ctx, "olive")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = ingredients.Create(ctx, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	list, err := ingredients.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acciughe", list[0].Name)
	assert.Equal(t, "Olive", list[1].Name)

	_, err = ingredients.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ingredients.Page(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIngredientPage(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(db).(*ingredientService)
	service.now = clock
	ctx := context.Background()

	user := newUser(t, db, "anna")
	ids := newIngredients(t, db, "Pomodoro", "Mozzarella", "Basilico")
	tomato, mozzarella, basil := ids[0], ids[1], ids[2]
	eight, six := 8.0, 6.0

	eat(t, db, user, date(2024, time.June, 10), &eight, tomato, mozzarella)
	eat(t, db, user, date(2024, time.June, 3), &six, tomato, mozzarella, basil)
	eat(t, db, user, date(2024, time.May, 1), nil, tomato)

	page, err := service.Page(ctx, mozzarella)
	require.NoError(t, err)
	assert.Equal(t, "Mozzarella", page.Ingredient.Name)
	assert.Equal(t, 2, page.Uses)
	assert.Equal(t, "7,0", page.AverageRating)

	assert.Equal(t, 2, page.Badges.AllTimeRank)
	assert.Equal(t, 2, page.Badges.AllTimeUses)
	assert.Equal(t, 2, page.Badges.MonthUses)
	require.NotNil(t, page.Badges.Weekday)
	assert.Equal(t, time.Monday, page.Badges.Weekday.Weekday)

	require.Len(t, page.Weekdays, 7)
	assert.Equal(t, 2, page.Weekdays[time.Monday].Count)
	assert.Equal(t, "100,0%", page.Weekdays[time.Monday].Label)

	require.Len(t, page.CoOccurring, 2)
	assert.Equal(t, NamedCount{IngredientID: tomato, Name: "Pomodoro", Count: 2}, page.CoOccurring[0])
	assert.Equal(t, NamedCount{IngredientID: basil, Name: "Basilico", Count: 1}, page.CoOccurring[1])

	// unrated and unused ingredients render as not available
	page, err = service.Page(ctx, basil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Uses)
	assert.Equal(t, "6,0", page.AverageRating)

	olive, err := service.Create(ctx, "Olive")
	require.NoError(t, err)
	page, err = service.Page(ctx, olive.ID)
	require.NoError(t, err)
	assert.Zero(t, page.Uses)
	assert.Equal(t, "n.d.", page.AverageRating)
	assert.Nil(t, page.Badges.Weekday)
	assert.Empty(t, page.CoOccurring)
}

func TestIngredientBadgesUseTheUTCMonth(t *testing.T) {
	db := setupTestDB(t)
	service := NewIngredientService(db).(*ingredientService)
	// already July in Rome, still June in UTC
	service.now = func() time.Time {
		return time.Date(2024, time.July, 1, 1, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	}
	user := newUser(t, db, "anna")
	ids := newIngredients(t, db, "Funghi")

	eat(t, db, user, date(2024, time.June, 30), nil, ids[0])

	page, err := service.Page(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, page.Badges.MonthRank)
	assert.Equal(t, 1, page.Badges.MonthUses)
}
