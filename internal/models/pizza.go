package models

import (
	"time"
)

// Origin tells where a pizza came from
type Origin string

const (
	OriginTakeaway   Origin = "takeaway"
	OriginFrozen     Origin = "frozen"
	OriginRestaurant Origin = "restaurant"
	OriginBakery     Origin = "bakery"
	OriginBar        Origin = "bar"
	OriginOther      Origin = "other"
)

// Valid reports whether o is one of the known origins
func (o Origin) Valid() bool {
	switch o {
	case OriginTakeaway, OriginFrozen, OriginRestaurant, OriginBakery, OriginBar, OriginOther:
		return true
	}
	return false
}

// Pizza is a single eating event logged by a user
type Pizza struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"index;not null" json:"user_id"`
	EatenAt     *time.Time        `gorm:"index" json:"eaten_at"`
	Rating      *float64          `json:"rating"`
	Origin      *Origin           `gorm:"type:varchar(20)" json:"origin"`
	HasDetails  bool              `gorm:"default:false" json:"has_details"`
	CreatedAt   time.Time         `json:"created_at"`
	Ingredients []PizzaIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (Pizza) TableName() string {
	return "pizzas"
}

// Ingredient is a read-only catalog entry
type Ingredient struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// PizzaIngredient links a pizza to one of its ingredients
type PizzaIngredient struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	PizzaID      uint       `gorm:"index;not null" json:"pizza_id"`
	IngredientID uint       `gorm:"index;not null" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
}

func (PizzaIngredient) TableName() string {
	return "pizza_ingredients"
}

// UserYearlyCounter holds pizzas eaten in a year before the user joined the app
type UserYearlyCounter struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Year      int  `gorm:"primaryKey;autoIncrement:false" json:"year"`
	BaseCount int  `gorm:"not null;default:0" json:"base_count"`
}

func (UserYearlyCounter) TableName() string {
	return "user_yearly_counters"
}
