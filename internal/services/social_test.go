package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/stats"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupMembership(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	anna := newUser(t, db, "anna")
	bruno := newUser(t, db, "bruno")
	carla := newUser(t, db, "carla")
	groups := NewGroupService(db)

	_, err := groups.Create(ctx, anna, NewGroup{Name: "  "})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = groups.Create(ctx, anna, NewGroup{Name: "x", Visibility: "secret"})
	assert.ErrorIs(t, err, ErrValidation)

	public, err := groups.Create(ctx, anna, NewGroup{Name: "Open"})
	require.NoError(t, err)
	assert.Equal(t, models.GroupPublic, public.Visibility)
	closed, err := groups.Create(ctx, anna, NewGroup{Name: "Closed", Visibility: models.GroupClosed})
	require.NoError(t, err)

	m, err := groups.Join(ctx, public.ID, bruno)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusActive, m.Status)
	_, err = groups.Join(ctx, public.ID, bruno)
	assert.ErrorIs(t, err, ErrConflict)

	m, err = groups.Join(ctx, closed.ID, bruno)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusPending, m.Status)

	_, err = groups.Approve(ctx, closed.ID, carla, bruno)
	assert.ErrorIs(t, err, ErrForbidden)
	m, err = groups.Approve(ctx, closed.ID, anna, bruno)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusActive, m.Status)

	_, err = groups.AddMember(ctx, closed.ID, bruno, carla)
	assert.ErrorIs(t, err, ErrForbidden)
	m, err = groups.AddMember(ctx, closed.ID, anna, carla)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusActive, m.Status)

	// a user without a profile cannot be added
	_, err = groups.AddMember(ctx, public.ID, anna, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
	members, err := groups.Members(ctx, public.ID, anna)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	members, err = groups.Members(ctx, closed.ID, anna)
	require.NoError(t, err)
	assert.Len(t, members, 3)

	_, err = groups.Join(ctx, 999, bruno)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupLeaderboard(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	anna := newUser(t, db, "anna")
	bruno := newUser(t, db, "bruno")
	carla := newUser(t, db, "carla")
	dario := newUser(t, db, "dario")
	groups := NewGroupService(db)

	group, err := groups.Create(ctx, anna, NewGroup{Name: "Family", Visibility: models.GroupPrivate})
	require.NoError(t, err)
	_, err = groups.AddMember(ctx, group.ID, anna, bruno)
	require.NoError(t, err)
	// pending members are not ranked
	_, err = groups.Join(ctx, group.ID, carla)
	require.NoError(t, err)

	eat(t, db, anna, date(2024, 2, 1), nil)
	eat(t, db, bruno, date(2024, 2, 1), nil)
	eat(t, db, bruno, date(2024, 3, 1), nil)
	require.NoError(t, db.Create(&models.UserYearlyCounter{UserID: anna, Year: 2024, BaseCount: 5}).Error)

	ctx = store.WithLoader(ctx, store.NewProfileLoader(db))
	board, err := groups.Leaderboard(ctx, group.ID, bruno, LeaderboardQuery{Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, 2, board.Participants)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "anna", board.Entries[0].Username)
	assert.Equal(t, 6, board.Entries[0].Total)
	assert.Equal(t, "gold", board.Entries[0].Tier)
	assert.Equal(t, "silver", board.Entries[1].Tier)
	require.NotNil(t, board.Me)
	assert.Equal(t, 2, board.Me.Position)

	// base counts are yearly and do not apply to a month
	board, err = groups.Leaderboard(ctx, group.ID, bruno, LeaderboardQuery{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, board.Entries[0].Total)

	_, err = groups.Leaderboard(ctx, group.ID, dario, LeaderboardQuery{Year: 2024})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = groups.Leaderboard(ctx, group.ID, anna, LeaderboardQuery{Year: 2024, Search: "zeta"})
	assert.ErrorIs(t, err, stats.ErrNoMatch)
}

func TestPrivateGroupHiddenFromOutsiders(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	anna := newUser(t, db, "anna")
	bruno := newUser(t, db, "bruno")
	carla := newUser(t, db, "carla")
	groups := NewGroupService(db)

	private, err := groups.Create(ctx, anna, NewGroup{Name: "Family", Visibility: models.GroupPrivate})
	require.NoError(t, err)
	_, err = groups.Join(ctx, private.ID, carla)
	require.NoError(t, err)

	_, err = groups.Get(ctx, private.ID, bruno)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = groups.Members(ctx, private.ID, bruno)
	assert.ErrorIs(t, err, ErrForbidden)
	// a pending request does not make carla a participant
	_, err = groups.Members(ctx, private.ID, carla)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := groups.Get(ctx, private.ID, anna)
	require.NoError(t, err)
	assert.Equal(t, "Family", got.Name)
	members, err := groups.Members(ctx, private.ID, anna)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	closed, err := groups.Create(ctx, anna, NewGroup{Name: "Club", Visibility: models.GroupClosed})
	require.NoError(t, err)
	_, err = groups.Members(ctx, closed.ID, bruno)
	assert.NoError(t, err, "closed groups stay listable")
}

func TestFriends(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	anna := newUser(t, db, "anna")
	bruno := newUser(t, db, "bruno")
	carla := newUser(t, db, "carla")
	friends := NewFriendService(db)

	_, err := friends.Request(ctx, anna, anna)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = friends.Request(ctx, anna, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	req, err := friends.Request(ctx, anna, bruno)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipPending, req.Status)
	_, err = friends.Request(ctx, bruno, anna)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = friends.Accept(ctx, req.ID, anna)
	assert.ErrorIs(t, err, ErrForbidden)
	req, err = friends.Accept(ctx, req.ID, bruno)
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipAccepted, req.Status)

	list, err := friends.Friends(ctx, bruno)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "anna", list[0].Handle())

	eat(t, db, bruno, date(2024, 5, 1), nil)
	eat(t, db, carla, date(2024, 5, 1), nil)
	eat(t, db, carla, date(2024, 5, 2), nil)

	board, err := friends.Leaderboard(ctx, anna, LeaderboardQuery{Year: 2024, View: ViewAll})
	require.NoError(t, err)
	usernames := lo.Map(board.Entries, func(e stats.Entry, _ int) string { return e.Username })
	assert.Equal(t, []string{"bruno", "anna"}, usernames)
	assert.Equal(t, 1, board.Pages)
}
