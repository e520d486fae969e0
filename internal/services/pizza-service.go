package services

import (
	"context"
	"errors"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/stats"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxRating is the top of the rating scale
const MaxRating = 10.0

// PizzaDetails is the optional information added after logging a pizza
type PizzaDetails struct {
	EatenAt       *time.Time     `json:"eaten_at"`
	Rating        *float64       `json:"rating"`
	Origin        *models.Origin `json:"origin"`
	IngredientIDs []uint         `json:"ingredient_ids"`
}

// YearTotal is a user's displayed count for a year
type YearTotal struct {
	Year      int `json:"year"`
	Count     int `json:"count"`
	BaseCount int `json:"base_count"`
	Total     int `json:"total"`
}

// PizzaService provides methods to log and manage eaten pizzas
type PizzaService interface {
	// Log records a pizza eaten by userID today, without details
	Log(ctx context.Context, userID uint) (models.Pizza, error)
	// AddDetails sets date, rating, origin and ingredients of one of userID's pizzas
	AddDetails(ctx context.Context, userID, pizzaID uint, details PizzaDetails) (models.Pizza, error)
	// UndoLast deletes userID's most recent pizza together with its ingredients
	UndoLast(ctx context.Context, userID uint) (models.Pizza, error)
	// List returns userID's pizzas eaten in year, newest first
	List(ctx context.Context, userID uint, year int) ([]models.Pizza, error)
	// Total returns userID's in-app count plus base count for year
	Total(ctx context.Context, userID uint, year int) (YearTotal, error)
}

// pizzaService is the implementation of the PizzaService interface
type pizzaService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPizzaService creates a new instance of PizzaService
func NewPizzaService(db *gorm.DB) PizzaService {
	return &pizzaService{db: db, now: time.Now}
}

// calendarDay keeps the date t has in its own location, stored as midnight UTC
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func today(now time.Time) time.Time {
	return calendarDay(now.UTC())
}

func (s *pizzaService) Log(ctx context.Context, userID uint) (models.Pizza, error) {
	eatenAt := today(s.now())
	pizza := models.Pizza{UserID: userID, EatenAt: &eatenAt}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&pizza).Error; err != nil {
		return models.Pizza{}, err
	}
	log.WithFields(logrus.Fields{"user_id": userID, "pizza_id": pizza.ID}).Debug("Pizza logged")
	return pizza, nil
}

func (d PizzaDetails) validate() error {
	if d.Rating != nil && (*d.Rating < 0 || *d.Rating > MaxRating) {
		return invalid("rating must be between 0 and %g", MaxRating)
	}
	if d.Origin != nil && !d.Origin.Valid() {
		return invalid("unknown origin %q", *d.Origin)
	}
	return nil
}

func (s *pizzaService) AddDetails(ctx context.Context, userID, pizzaID uint, details PizzaDetails) (models.Pizza, error) {
	if err := details.validate(); err != nil {
		return models.Pizza{}, err
	}
	ingredientIDs := lo.Uniq(details.IngredientIDs)

	var pizza models.Pizza
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&pizza, pizzaID).Error; err != nil {
			return notFound(err, "pizza")
		}
		if pizza.UserID != userID {
			return ErrForbidden
		}

		if len(ingredientIDs) > 0 {
			var known int64
			if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&known).Error; err != nil {
				return err
			}
			if int(known) != len(ingredientIDs) {
				return invalid("unknown ingredient")
			}
		}

		if details.EatenAt != nil {
			eatenAt := calendarDay(*details.EatenAt)
			pizza.EatenAt = &eatenAt
		}
		pizza.Rating = details.Rating
		pizza.Origin = details.Origin
		pizza.HasDetails = true
		if err := tx.Omit(clause.Associations).Save(&pizza).Error; err != nil {
			return err
		}

		if err := tx.Where("pizza_id = ?", pizza.ID).Delete(&models.PizzaIngredient{}).Error; err != nil {
			return err
		}
		if len(ingredientIDs) == 0 {
			return nil
		}
		joins := lo.Map(ingredientIDs, func(id uint, _ int) models.PizzaIngredient {
			return models.PizzaIngredient{PizzaID: pizza.ID, IngredientID: id}
		})
		return tx.Omit(clause.Associations).Create(&joins).Error
	})
	if err != nil {
		return models.Pizza{}, err
	}
	return s.load(ctx, pizza.ID)
}

func (s *pizzaService) load(ctx context.Context, id uint) (models.Pizza, error) {
	var pizza models.Pizza
	err := s.db.WithContext(ctx).Preload("Ingredients.Ingredient").First(&pizza, id).Error
	return pizza, notFound(err, "pizza")
}

// UndoLast removes the children and the pizza in one transaction so a failure
// never leaves orphaned pizza_ingredients behind.
func (s *pizzaService) UndoLast(ctx context.Context, userID uint) (models.Pizza, error) {
	var pizza models.Pizza
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).Order("created_at DESC, id DESC").First(&pizza).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNothingToUndo
		}
		if err != nil {
			return err
		}
		if err := tx.Where("pizza_id = ?", pizza.ID).Delete(&models.PizzaIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Pizza{}, pizza.ID).Error
	})
	if err != nil {
		return models.Pizza{}, err
	}
	log.WithFields(logrus.Fields{"user_id": userID, "pizza_id": pizza.ID}).Info("Last pizza undone")
	return pizza, nil
}

func (s *pizzaService) List(ctx context.Context, userID uint, year int) ([]models.Pizza, error) {
	from, to := stats.YearBounds(year)
	var pizzas []models.Pizza
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Where("user_id = ? AND eaten_at >= ? AND eaten_at < ?", userID, from, to).
		Order("eaten_at DESC, id DESC").
		Find(&pizzas).Error
	if err != nil {
		return nil, err
	}
	return pizzas, nil
}

func (s *pizzaService) Total(ctx context.Context, userID uint, year int) (YearTotal, error) {
	from, to := stats.YearBounds(year)
	count, err := store.CountPizzas(ctx, s.db, userID, from, to)
	if err != nil {
		return YearTotal{}, err
	}
	base, err := store.BaseCounts(ctx, s.db, year, []uint{userID})
	if err != nil {
		return YearTotal{}, err
	}
	return YearTotal{Year: year, Count: count, BaseCount: base[userID], Total: base[userID] + count}, nil
}
