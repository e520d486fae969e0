package services

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fixedNow is a Wednesday
var fixedNow = time.Date(2024, time.June, 12, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// newUser registers a user and completes onboarding with username
func newUser(t *testing.T, db *gorm.DB, username string) uint {
	user, err := NewUserService(db).Register(context.Background(), username+"@example.com", "secret1", username)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Profile{}).Where("id = ?", user.ID).
		Updates(map[string]any{"username": username, "needs_onboarding": false}).Error)
	return user.ID
}

func newIngredients(t *testing.T, db *gorm.DB, names ...string) []uint {
	ingredients := lo.Map(names, func(n string, _ int) models.Ingredient { return models.Ingredient{Name: n} })
	require.NoError(t, db.Create(&ingredients).Error)
	return lo.Map(ingredients, func(i models.Ingredient, _ int) uint { return i.ID })
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// eat stores a dated pizza with its ingredients
func eat(t *testing.T, db *gorm.DB, userID uint, when time.Time, rating *float64, ingredientIDs ...uint) models.Pizza {
	pizza := models.Pizza{UserID: userID, EatenAt: &when, Rating: rating, HasDetails: rating != nil || len(ingredientIDs) > 0}
	require.NoError(t, db.Omit(clause.Associations).Create(&pizza).Error)
	for _, id := range ingredientIDs {
		require.NoError(t, db.Omit(clause.Associations).Create(&models.PizzaIngredient{PizzaID: pizza.ID, IngredientID: id}).Error)
	}
	return pizza
}

func befriend(t *testing.T, db *gorm.DB, a, b uint) {
	require.NoError(t, db.Create(&models.Friendship{RequesterID: a, AddresseeID: b, Status: models.FriendshipAccepted}).Error)
}
