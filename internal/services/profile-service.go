package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,20}$`)

// ValidateUsername checks length and charset before any write
func ValidateUsername(username string) error {
	if n := len(username); n < 3 || n > 20 {
		return invalid("username must be between 3 and 20 characters")
	}
	if !usernamePattern.MatchString(username) {
		return invalid("username may only contain letters, digits, '_' and '.'")
	}
	return nil
}

// ProfileService reads and edits profiles and decides what others may see
type ProfileService interface {
	Get(ctx context.Context, userID uint) (models.Profile, error)
	GetByUsername(ctx context.Context, username string) (models.Profile, error)
	// Update applies a partial update, validating every field first
	Update(ctx context.Context, userID uint, update models.ProfileUpdate) (models.Profile, error)
	// CompleteOnboarding sets the username and display name and clears the onboarding flag
	CompleteOnboarding(ctx context.Context, userID uint, username, displayName string) (models.Profile, error)
	// CanViewPizzas applies owner's pizza visibility to viewer
	CanViewPizzas(ctx context.Context, viewer uint, owner models.Profile) (bool, error)
	// CanViewEmail applies owner's email visibility to viewer
	CanViewEmail(ctx context.Context, viewer uint, owner models.Profile) (bool, error)
}

type profileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) ProfileService {
	return &profileService{db: db}
}

func (s *profileService) Get(ctx context.Context, userID uint) (models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, userID).Error
	return profile, notFound(err, "profile")
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error
	return profile, notFound(err, "profile")
}

func (s *profileService) usernameTaken(ctx context.Context, userID uint, username string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("LOWER(username) = ? AND id <> ?", strings.ToLower(username), userID).
		Count(&n).Error
	return n > 0, err
}

func (s *profileService) Update(ctx context.Context, userID uint, update models.ProfileUpdate) (models.Profile, error) {
	changes := map[string]any{}
	if update.Username != nil {
		if err := ValidateUsername(*update.Username); err != nil {
			return models.Profile{}, err
		}
		changes["username"] = *update.Username
	}
	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if len(name) > 100 {
			return models.Profile{}, invalid("display name is too long")
		}
		changes["display_name"] = name
	}
	if update.PizzaVisibility != nil {
		if !update.PizzaVisibility.Valid() {
			return models.Profile{}, invalid("unknown pizza visibility %q", *update.PizzaVisibility)
		}
		changes["pizza_visibility"] = *update.PizzaVisibility
	}
	if update.EmailVisibility != nil {
		if !update.EmailVisibility.Valid() {
			return models.Profile{}, invalid("unknown email visibility %q", *update.EmailVisibility)
		}
		changes["email_visibility"] = *update.EmailVisibility
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	if len(changes) == 0 {
		return profile, nil
	}
	if update.Username != nil {
		taken, err := s.usernameTaken(ctx, userID, *update.Username)
		if err != nil {
			return models.Profile{}, err
		}
		if taken {
			return models.Profile{}, ErrUsernameTaken
		}
	}

	if err := s.db.WithContext(ctx).Model(&profile).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Profile{}, ErrUsernameTaken
		}
		return models.Profile{}, err
	}
	return s.Get(ctx, userID)
}

func (s *profileService) CompleteOnboarding(ctx context.Context, userID uint, username, displayName string) (models.Profile, error) {
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}
	var profile models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		inTx := &profileService{db: tx}
		if profile, err = inTx.Update(ctx, userID, models.ProfileUpdate{Username: &username, DisplayName: &displayName}); err != nil {
			return err
		}
		return tx.Model(&profile).Update("needs_onboarding", false).Error
	})
	if err != nil {
		return models.Profile{}, err
	}
	profile.NeedsOnboarding = false
	return profile, nil
}

func (s *profileService) canView(ctx context.Context, viewer uint, owner models.Profile, level models.Visibility) (bool, error) {
	if viewer == owner.ID {
		return true, nil
	}
	switch level {
	case models.VisibilityEveryone:
		return true, nil
	case models.VisibilityFriends:
		return store.AreFriends(ctx, s.db, viewer, owner.ID)
	case models.VisibilityGroups:
		return store.ShareGroup(ctx, s.db, viewer, owner.ID)
	default:
		return false, nil
	}
}

func (s *profileService) CanViewPizzas(ctx context.Context, viewer uint, owner models.Profile) (bool, error) {
	return s.canView(ctx, viewer, owner, owner.PizzaVisibility)
}

func (s *profileService) CanViewEmail(ctx context.Context, viewer uint, owner models.Profile) (bool, error) {
	return s.canView(ctx, viewer, owner, owner.EmailVisibility)
}
