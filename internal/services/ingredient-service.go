package services

import (
	"context"
	"strings"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/stats"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// NamedCount is a counted ingredient with its catalog name
type NamedCount struct {
	IngredientID uint   `json:"ingredient_id"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
}

// IngredientPage is everything shown about a single ingredient
type IngredientPage struct {
	Ingredient    models.Ingredient `json:"ingredient"`
	Uses          int               `json:"uses"`
	AverageRating string            `json:"average_rating"`
	Badges        stats.Badges      `json:"badges"`
	Weekdays      []stats.Share     `json:"weekdays"`
	CoOccurring   []NamedCount      `json:"co_occurring"`
}

// IngredientService reads the ingredient catalog and builds ingredient pages
type IngredientService interface {
	List(ctx context.Context) ([]models.Ingredient, error)
	Get(ctx context.Context, id uint) (models.Ingredient, error)
	// Create adds a catalog entry; only administrators reach it
	Create(ctx context.Context, name string) (models.Ingredient, error)
	// Page aggregates all-time usage, badges and companions of one ingredient
	Page(ctx context.Context, id uint) (IngredientPage, error)
}

type ingredientService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewIngredientService(db *gorm.DB) IngredientService {
	return &ingredientService{db: db, now: time.Now}
}

func (s *ingredientService) List(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if err := s.db.WithContext(ctx).Order("name").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *ingredientService) Get(ctx context.Context, id uint) (models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).First(&ingredient, id).Error
	return ingredient, notFound(err, "ingredient")
}

func (s *ingredientService) Create(ctx context.Context, name string) (models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Ingredient{}, invalid("ingredient name is required")
	}
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("LOWER(name) = ?", strings.ToLower(name)).Count(&existing).Error; err != nil {
		return models.Ingredient{}, err
	}
	if existing > 0 {
		return models.Ingredient{}, ErrConflict
	}
	ingredient := models.Ingredient{Name: name}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return models.Ingredient{}, err
	}
	return ingredient, nil
}

func (s *ingredientService) Page(ctx context.Context, id uint) (IngredientPage, error) {
	ingredient, err := s.Get(ctx, id)
	if err != nil {
		return IngredientPage{}, err
	}

	rows, err := store.IngredientRows(ctx, s.db, store.Scope{})
	if err != nil {
		return IngredientPage{}, err
	}
	own := stats.ForIngredient(rows, id)
	usage := stats.IngredientUsage(own)

	page := IngredientPage{
		Ingredient:    ingredient,
		AverageRating: stats.NotAvailable,
		Badges:        stats.IngredientBadges(rows, id, s.now().UTC()),
	}
	if len(usage) > 0 {
		page.Uses = usage[0].Uses
		page.AverageRating = stats.FormatOptional(usage[0].AverageRating, 1)
	}
	dates := lo.Map(own, func(r models.PizzaIngredientRow, _ int) time.Time { return r.EatenAt })
	weekdays := stats.ByWeekday(dates)
	page.Weekdays = stats.Shares(weekdays[:], 1)

	page.CoOccurring, err = s.named(ctx, stats.CoOccurring(rows, id))
	if err != nil {
		return IngredientPage{}, err
	}
	return page, nil
}

func (s *ingredientService) named(ctx context.Context, counts []stats.Count) ([]NamedCount, error) {
	names, err := store.IngredientNames(ctx, s.db, lo.Map(counts, func(c stats.Count, _ int) uint { return c.Key }))
	if err != nil {
		return nil, err
	}
	return lo.Map(counts, func(c stats.Count, _ int) NamedCount {
		return NamedCount{IngredientID: c.Key, Name: names[c.Key], Count: c.Count}
	}), nil
}
