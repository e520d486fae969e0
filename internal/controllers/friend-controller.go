package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// FriendController handles friend requests and the friends leaderboard
type FriendController interface {
	// Request sends a friend request by username
	Request(ctx *gin.Context)
	// Accept accepts a pending friend request
	Accept(ctx *gin.Context)
	// List lists the caller's friends
	List(ctx *gin.Context)
	// Leaderboard ranks the caller against their friends
	Leaderboard(ctx *gin.Context)
}

type friendController struct {
	friends  services.FriendService
	profiles services.ProfileService
	now      func() time.Time
}

// NewFriendController creates a new instance of FriendController
func NewFriendController(friends services.FriendService, profiles services.ProfileService) *friendController {
	return &friendController{friends: friends, profiles: profiles, now: time.Now}
}

type friendRequest struct {
	Username string `json:"username" binding:"required"`
}

// Request godoc
// @Summary Send a friend request
// @Tags friends
// @Accept json
// @Produce json
// @Param request body friendRequest true "Username to befriend"
// @Success 201 {object} models.Friendship
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/friends [post]
func (c *friendController) Request(ctx *gin.Context) {
	var req friendRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}
	reqCtx := ctx.Request.Context()
	target, err := c.profiles.GetByUsername(reqCtx, req.Username)
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}
	friendship, err := c.friends.Request(reqCtx, currentUser(ctx), target.ID)
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}
	ctx.JSON(http.StatusCreated, friendship)
}

// Accept godoc
// @Summary Accept a friend request
// @Tags friends
// @Produce json
// @Param id path int true "Friendship ID"
// @Success 200 {object} models.Friendship
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/friends/{id}/accept [post]
func (c *friendController) Accept(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	friendship, err := c.friends.Accept(ctx.Request.Context(), id, currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	ctx.JSON(http.StatusOK, friendship)
}

// List godoc
// @Summary List your friends
// @Tags friends
// @Produce json
// @Success 200 {array} models.Profile
// @Security BearerAuth
// @Router /api/v1/friends [get]
func (c *friendController) List(ctx *gin.Context) {
	friends, err := c.friends.Friends(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	ctx.JSON(http.StatusOK, friends)
}

// Leaderboard godoc
// @Summary Friends leaderboard
// @Description Your accepted friends and you, base counts included for whole years
// @Tags friends
// @Produce json
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Param view query string false "around, top10, top50 or all"
// @Param page query int false "Page for view=all"
// @Param size query int false "Page size for view=all"
// @Param search query string false "Center on the first matching user"
// @Success 200 {object} services.LeaderboardView
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/friends/leaderboard [get]
func (c *friendController) Leaderboard(ctx *gin.Context) {
	q, ok := leaderboardQuery(ctx, c.now())
	if !ok {
		return
	}
	board, err := c.friends.Leaderboard(ctx.Request.Context(), currentUser(ctx), q)
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	ctx.JSON(http.StatusOK, board)
}
