package store

import (
	"context"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// FriendIDs returns the users with an accepted friendship with userID, oldest first
func FriendIDs(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error) {
	var friendships []models.Friendship
	err := db.WithContext(ctx).
		Where("status = ? AND (requester_id = ? OR addressee_id = ?)", models.FriendshipAccepted, userID, userID).
		Order("id").
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}
	return lo.Map(friendships, func(f models.Friendship, _ int) uint { return f.Other(userID) }), nil
}

// AreFriends reports whether a and b have an accepted friendship
func AreFriends(ctx context.Context, db *gorm.DB, a, b uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&models.Friendship{}).
		Where("status = ?", models.FriendshipAccepted).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		Count(&n).Error
	return n > 0, err
}

// GroupParticipants returns the owner followed by the active members of a group
func GroupParticipants(ctx context.Context, db *gorm.DB, group models.Group) ([]uint, error) {
	var members []models.GroupMember
	err := db.WithContext(ctx).
		Where("group_id = ? AND status = ?", group.ID, models.MemberStatusActive).
		Order("created_at, user_id").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	ids := append([]uint{group.OwnerID}, lo.Map(members, func(m models.GroupMember, _ int) uint { return m.UserID })...)
	return lo.Uniq(ids), nil
}

// GroupIDsOf returns the groups userID owns or is an active member of
func GroupIDsOf(ctx context.Context, db *gorm.DB, userID uint) ([]uint, error) {
	var owned, joined []uint
	tx := db.WithContext(ctx)
	if err := tx.Model(&models.Group{}).Where("owner_id = ?", userID).Pluck("id", &owned).Error; err != nil {
		return nil, err
	}
	err := tx.Model(&models.GroupMember{}).
		Where("user_id = ? AND status = ?", userID, models.MemberStatusActive).
		Pluck("group_id", &joined).Error
	if err != nil {
		return nil, err
	}
	return lo.Uniq(append(owned, joined...)), nil
}

// ShareGroup reports whether a and b participate in at least one common group
func ShareGroup(ctx context.Context, db *gorm.DB, a, b uint) (bool, error) {
	ga, err := GroupIDsOf(ctx, db, a)
	if err != nil {
		return false, err
	}
	gb, err := GroupIDsOf(ctx, db, b)
	if err != nil {
		return false, err
	}
	return len(lo.Intersect(ga, gb)) > 0, nil
}

// IngredientNames resolves catalog names for ids
func IngredientNames(ctx context.Context, db *gorm.DB, ids []uint) (map[uint]string, error) {
	out := map[uint]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var ingredients []models.Ingredient
	if err := db.WithContext(ctx).Where("id IN ?", lo.Uniq(ids)).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	for _, i := range ingredients {
		out[i.ID] = i.Name
	}
	return out, nil
}
