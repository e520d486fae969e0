package models

import (
	"time"
)

// PizzaRow is the narrowed result of a pizza query used by the aggregations
type PizzaRow struct {
	ID      uint
	UserID  uint
	EatenAt time.Time
	Rating  *float64
}

// PizzaIngredientRow is one pizza_ingredients join with the owning pizza's columns
type PizzaIngredientRow struct {
	PizzaID      uint
	IngredientID uint
	UserID       uint
	EatenAt      time.Time
	Rating       *float64
}
