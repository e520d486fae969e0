package store

import (
	"context"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"gorm.io/gorm"
)

// Scope narrows a row query. Zero bounds are open; an empty UserIDs means everyone.
type Scope struct {
	From    time.Time
	To      time.Time
	UserIDs []uint
}

func (s Scope) apply(tx *gorm.DB) *gorm.DB {
	tx = tx.Where("pizzas.eaten_at IS NOT NULL")
	if !s.From.IsZero() {
		tx = tx.Where("pizzas.eaten_at >= ?", s.From)
	}
	if !s.To.IsZero() {
		tx = tx.Where("pizzas.eaten_at < ?", s.To)
	}
	if len(s.UserIDs) > 0 {
		tx = tx.Where("pizzas.user_id IN ?", s.UserIDs)
	}
	return tx
}

// PizzaRows loads dated pizzas in scope, oldest first
func PizzaRows(ctx context.Context, db *gorm.DB, scope Scope) ([]models.PizzaRow, error) {
	var rows []models.PizzaRow
	err := scope.apply(db.WithContext(ctx).Model(&models.Pizza{})).
		Select("pizzas.id, pizzas.user_id, pizzas.eaten_at, pizzas.rating").
		Order("pizzas.eaten_at, pizzas.id").
		Scan(&rows).Error
	return rows, err
}

// IngredientRows loads the pizza_ingredients joins of dated pizzas in scope
func IngredientRows(ctx context.Context, db *gorm.DB, scope Scope) ([]models.PizzaIngredientRow, error) {
	var rows []models.PizzaIngredientRow
	err := scope.apply(db.WithContext(ctx).Model(&models.PizzaIngredient{})).
		Joins("JOIN pizzas ON pizzas.id = pizza_ingredients.pizza_id").
		Select("pizza_ingredients.pizza_id, pizza_ingredients.ingredient_id, pizzas.user_id, pizzas.eaten_at, pizzas.rating").
		Order("pizzas.eaten_at, pizzas.id, pizza_ingredients.id").
		Scan(&rows).Error
	return rows, err
}

// BaseCounts returns the manual offsets of userIDs for year
func BaseCounts(ctx context.Context, db *gorm.DB, year int, userIDs []uint) (map[uint]int, error) {
	var counters []models.UserYearlyCounter
	tx := db.WithContext(ctx).Where("year = ?", year)
	if len(userIDs) > 0 {
		tx = tx.Where("user_id IN ?", userIDs)
	}
	if err := tx.Find(&counters).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]int, len(counters))
	for _, c := range counters {
		out[c.UserID] = c.BaseCount
	}
	return out, nil
}

// CountPizzas counts userID's dated pizzas in [from, to)
func CountPizzas(ctx context.Context, db *gorm.DB, userID uint, from, to time.Time) (int, error) {
	var n int64
	err := Scope{From: from, To: to, UserIDs: []uint{userID}}.
		apply(db.WithContext(ctx).Model(&models.Pizza{})).
		Count(&n).Error
	return int(n), err
}
