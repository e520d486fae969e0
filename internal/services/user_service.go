package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService manages authentication identities
type UserService interface {
	// Register creates the user and its empty profile, flagged for onboarding
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	// Authenticate returns the user when email and password match
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

// ErrInvalidCredentials is returned for an unknown email or a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

func (s *userService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 6 {
		return nil, invalid("password must be at least 6 characters")
	}

	user := &models.User{Email: email, Password: password, Role: "user"}
	if err := user.HashPassword(); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrConflict
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		profile := models.Profile{
			ID:              user.ID,
			DisplayName:     displayName,
			PizzaVisibility: models.VisibilityEveryone,
			EmailVisibility: models.VisibilityNone,
			NeedsOnboarding: true,
		}
		return tx.Omit(clause.Associations).Create(&profile).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}
