package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/stats"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewGroup is the input of GroupService.Create
type NewGroup struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Visibility  models.GroupVisibility `json:"visibility"`
}

// GroupService manages groups, their memberships and their leaderboards
type GroupService interface {
	// Create stores the group and makes the owner an active admin member
	Create(ctx context.Context, ownerID uint, input NewGroup) (models.Group, error)
	// Get returns the group; private groups are visible to their participants only
	Get(ctx context.Context, groupID, viewer uint) (models.Group, error)
	// Join requests membership; public groups activate it immediately
	Join(ctx context.Context, groupID, userID uint) (models.GroupMember, error)
	// AddMember lets the owner add a user directly as an active member
	AddMember(ctx context.Context, groupID, actorID, userID uint) (models.GroupMember, error)
	// Approve activates a pending membership; owner or group admins only
	Approve(ctx context.Context, groupID, actorID, userID uint) (models.GroupMember, error)
	// Members lists every membership, pending ones included, under the same rule as Get
	Members(ctx context.Context, groupID, viewer uint) ([]models.GroupMember, error)
	// Leaderboard ranks owner and active members, including base counts
	Leaderboard(ctx context.Context, groupID, viewer uint, q LeaderboardQuery) (LeaderboardView, error)
}

type groupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) GroupService {
	return &groupService{db: db}
}

func (s *groupService) Create(ctx context.Context, ownerID uint, input NewGroup) (models.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Group{}, invalid("group name is required")
	}
	if input.Visibility == "" {
		input.Visibility = models.GroupPublic
	}
	if !input.Visibility.Valid() {
		return models.Group{}, invalid("unknown group visibility %q", input.Visibility)
	}

	group := models.Group{Name: name, Description: input.Description, Visibility: input.Visibility, OwnerID: ownerID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		return tx.Create(&models.GroupMember{
			GroupID: group.ID,
			UserID:  ownerID,
			Role:    models.MemberRoleAdmin,
			Status:  models.MemberStatusActive,
		}).Error
	})
	if err != nil {
		return models.Group{}, err
	}
	log.WithFields(logrus.Fields{"group_id": group.ID, "owner_id": ownerID}).Info("Group created")
	return group, nil
}

func (s *groupService) load(ctx context.Context, groupID uint) (models.Group, error) {
	var group models.Group
	err := s.db.WithContext(ctx).First(&group, groupID).Error
	return group, notFound(err, "group")
}

// participants returns the group's owner and active members, refusing a viewer
// outside them when the group is private
func (s *groupService) participants(ctx context.Context, group models.Group, viewer uint) ([]uint, error) {
	ids, err := store.GroupParticipants(ctx, s.db, group)
	if err != nil {
		return nil, err
	}
	if group.Visibility == models.GroupPrivate && !lo.Contains(ids, viewer) {
		return nil, ErrForbidden
	}
	return ids, nil
}

func (s *groupService) Get(ctx context.Context, groupID, viewer uint) (models.Group, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if _, err := s.participants(ctx, group, viewer); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

func (s *groupService) member(ctx context.Context, groupID, userID uint) (models.GroupMember, error) {
	var m models.GroupMember
	err := s.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).First(&m).Error
	return m, notFound(err, "membership")
}

func (s *groupService) Join(ctx context.Context, groupID, userID uint) (models.GroupMember, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return models.GroupMember{}, err
	}
	if existing, err := s.member(ctx, groupID, userID); err == nil {
		return existing, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return models.GroupMember{}, err
	}

	m := models.GroupMember{GroupID: groupID, UserID: userID, Role: models.MemberRoleMember, Status: models.MemberStatusPending}
	if group.Visibility == models.GroupPublic {
		m.Status = models.MemberStatusActive
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return models.GroupMember{}, err
	}
	return m, nil
}

func (s *groupService) AddMember(ctx context.Context, groupID, actorID, userID uint) (models.GroupMember, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return models.GroupMember{}, err
	}
	if group.OwnerID != actorID {
		return models.GroupMember{}, ErrForbidden
	}
	var known int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", userID).Count(&known).Error; err != nil {
		return models.GroupMember{}, err
	}
	if known == 0 {
		return models.GroupMember{}, notFound(gorm.ErrRecordNotFound, "profile")
	}

	m := models.GroupMember{GroupID: groupID, UserID: userID, Role: models.MemberRoleMember, Status: models.MemberStatusActive}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{"status": models.MemberStatusActive}),
	}).Create(&m).Error
	if err != nil {
		return models.GroupMember{}, err
	}
	return s.member(ctx, groupID, userID)
}

func (s *groupService) Approve(ctx context.Context, groupID, actorID, userID uint) (models.GroupMember, error) {
	group, err := s.load(ctx, groupID)
	if err != nil {
		return models.GroupMember{}, err
	}
	if group.OwnerID != actorID {
		actor, err := s.member(ctx, groupID, actorID)
		if err != nil || actor.Role != models.MemberRoleAdmin || actor.Status != models.MemberStatusActive {
			return models.GroupMember{}, ErrForbidden
		}
	}

	m, err := s.member(ctx, groupID, userID)
	if err != nil {
		return models.GroupMember{}, err
	}
	if m.Status == models.MemberStatusActive {
		return m, nil
	}
	if err := s.db.WithContext(ctx).Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("status", models.MemberStatusActive).Error; err != nil {
		return models.GroupMember{}, err
	}
	m.Status = models.MemberStatusActive
	return m, nil
}

func (s *groupService) Members(ctx context.Context, groupID, viewer uint) ([]models.GroupMember, error) {
	if _, err := s.Get(ctx, groupID, viewer); err != nil {
		return nil, err
	}
	var members []models.GroupMember
	if err := s.db.WithContext(ctx).Where("group_id = ?", groupID).Order("created_at, user_id").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (s *groupService) Leaderboard(ctx context.Context, groupID, viewer uint, q LeaderboardQuery) (LeaderboardView, error) {
	if err := q.validate(); err != nil {
		return LeaderboardView{}, err
	}
	group, err := s.load(ctx, groupID)
	if err != nil {
		return LeaderboardView{}, err
	}
	// the membership list must resolve before the participants are known
	participants, err := s.participants(ctx, group, viewer)
	if err != nil {
		return LeaderboardView{}, err
	}

	entries, err := rankScope(ctx, s.db, participants, viewer, q, true)
	if err != nil {
		return LeaderboardView{}, err
	}
	return window(stats.WithTiers(entries), q)
}
