package services

import (
	"context"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"gorm.io/gorm"
)

// FriendService manages friend requests and the friends leaderboard
type FriendService interface {
	// Request asks addresseeID to become requesterID's friend
	Request(ctx context.Context, requesterID, addresseeID uint) (models.Friendship, error)
	// Accept lets the addressee accept a pending request
	Accept(ctx context.Context, friendshipID, userID uint) (models.Friendship, error)
	// Friends lists the profiles of userID's accepted friends
	Friends(ctx context.Context, userID uint) ([]models.Profile, error)
	// Leaderboard ranks accepted friends plus the viewer, including base counts
	Leaderboard(ctx context.Context, viewer uint, q LeaderboardQuery) (LeaderboardView, error)
}

type friendService struct {
	db *gorm.DB
}

func NewFriendService(db *gorm.DB) FriendService {
	return &friendService{db: db}
}

func (s *friendService) Request(ctx context.Context, requesterID, addresseeID uint) (models.Friendship, error) {
	if requesterID == addresseeID {
		return models.Friendship{}, invalid("you cannot befriend yourself")
	}
	var target int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", addresseeID).Count(&target).Error; err != nil {
		return models.Friendship{}, err
	}
	if target == 0 {
		return models.Friendship{}, notFound(gorm.ErrRecordNotFound, "profile")
	}

	var existing int64
	err := s.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			requesterID, addresseeID, addresseeID, requesterID).
		Count(&existing).Error
	if err != nil {
		return models.Friendship{}, err
	}
	if existing > 0 {
		return models.Friendship{}, ErrConflict
	}

	f := models.Friendship{RequesterID: requesterID, AddresseeID: addresseeID, Status: models.FriendshipPending}
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		return models.Friendship{}, err
	}
	return f, nil
}

func (s *friendService) Accept(ctx context.Context, friendshipID, userID uint) (models.Friendship, error) {
	var f models.Friendship
	if err := s.db.WithContext(ctx).First(&f, friendshipID).Error; err != nil {
		return models.Friendship{}, notFound(err, "friend request")
	}
	if f.AddresseeID != userID {
		return models.Friendship{}, ErrForbidden
	}
	if f.Status == models.FriendshipAccepted {
		return f, nil
	}
	if err := s.db.WithContext(ctx).Model(&f).Update("status", models.FriendshipAccepted).Error; err != nil {
		return models.Friendship{}, err
	}
	f.Status = models.FriendshipAccepted
	return f, nil
}

func (s *friendService) Friends(ctx context.Context, userID uint) ([]models.Profile, error) {
	ids, err := store.FriendIDs(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	profiles, err := store.LoaderFrom(ctx, s.db).Load(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *friendService) Leaderboard(ctx context.Context, viewer uint, q LeaderboardQuery) (LeaderboardView, error) {
	if err := q.validate(); err != nil {
		return LeaderboardView{}, err
	}
	friends, err := store.FriendIDs(ctx, s.db, viewer)
	if err != nil {
		return LeaderboardView{}, err
	}
	entries, err := rankScope(ctx, s.db, append(friends, viewer), viewer, q, true)
	if err != nil {
		return LeaderboardView{}, err
	}
	return window(entries, q)
}
