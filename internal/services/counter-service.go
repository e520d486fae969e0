package services

import (
	"context"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MinCounterYear is the first year a base count may be entered for
const MinCounterYear = 2000

// CounterService stores the pizzas users ate before they started logging them
type CounterService interface {
	// SetBaseCount upserts userID's offset for year
	SetBaseCount(ctx context.Context, userID uint, year, baseCount int) (models.UserYearlyCounter, error)
	// BaseCount returns userID's offset for year, 0 when none was entered
	BaseCount(ctx context.Context, userID uint, year int) (int, error)
}

type counterService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCounterService(db *gorm.DB) CounterService {
	return &counterService{db: db, now: time.Now}
}

func (s *counterService) SetBaseCount(ctx context.Context, userID uint, year, baseCount int) (models.UserYearlyCounter, error) {
	if year < MinCounterYear || year > s.now().Year() {
		return models.UserYearlyCounter{}, invalid("year must be between %d and %d", MinCounterYear, s.now().Year())
	}
	if baseCount < 0 {
		return models.UserYearlyCounter{}, invalid("base count cannot be negative")
	}

	counter := models.UserYearlyCounter{UserID: userID, Year: year, BaseCount: baseCount}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"base_count"}),
	}).Create(&counter).Error
	if err != nil {
		return models.UserYearlyCounter{}, err
	}
	return counter, nil
}

func (s *counterService) BaseCount(ctx context.Context, userID uint, year int) (int, error) {
	var counter models.UserYearlyCounter
	err := s.db.WithContext(ctx).Where("user_id = ? AND year = ?", userID, year).Limit(1).Find(&counter).Error
	return counter.BaseCount, err
}
