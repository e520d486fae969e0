package store

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendIDs(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&[]models.Friendship{
		{RequesterID: 1, AddresseeID: 2, Status: models.FriendshipAccepted},
		{RequesterID: 3, AddresseeID: 1, Status: models.FriendshipAccepted},
		{RequesterID: 1, AddresseeID: 4, Status: models.FriendshipPending},
	}).Error)

	ids, err := FriendIDs(ctx, db, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3}, ids)

	ok, err := AreFriends(ctx, db, 3, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AreFriends(ctx, db, 1, 4)
	require.NoError(t, err)
	assert.False(t, ok, "pending requests are not friendships")
}

func TestGroupParticipantsAndSharing(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	group := models.Group{Name: "Napoli", Visibility: models.GroupPublic, OwnerID: 1}
	require.NoError(t, db.Create(&group).Error)
	require.NoError(t, db.Create(&[]models.GroupMember{
		{GroupID: group.ID, UserID: 1, Role: models.MemberRoleAdmin, Status: models.MemberStatusActive},
		{GroupID: group.ID, UserID: 2, Role: models.MemberRoleMember, Status: models.MemberStatusActive},
		{GroupID: group.ID, UserID: 3, Role: models.MemberRoleMember, Status: models.MemberStatusPending},
	}).Error)

	ids, err := GroupParticipants(ctx, db, group)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids)

	shared, err := ShareGroup(ctx, db, 2, 1)
	require.NoError(t, err)
	assert.True(t, shared)

	shared, err = ShareGroup(ctx, db, 3, 1)
	require.NoError(t, err)
	assert.False(t, shared)
}

func TestIngredientNames(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&[]models.Ingredient{{ID: 1, Name: "Funghi"}, {ID: 2, Name: "Olive"}}).Error)

	names, err := IngredientNames(context.Background(), db, []uint{2, 2, 7})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{2: "Olive"}, names)

	names, err = IngredientNames(context.Background(), db, nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoaderFromContext(t *testing.T) {
	db := setupTestDB(t)
	loader := NewProfileLoader(db)

	assert.Same(t, loader, LoaderFrom(WithLoader(context.Background(), loader), db))
	assert.NotSame(t, loader, LoaderFrom(context.Background(), db))
}
