package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// GroupController handles groups, memberships and group leaderboards
type GroupController interface {
	// Create creates a group owned by the caller
	Create(ctx *gin.Context)
	// Get retrieves a group by its ID
	Get(ctx *gin.Context)
	// Join asks to join a group
	Join(ctx *gin.Context)
	// AddMember adds a user as an active member
	AddMember(ctx *gin.Context)
	// Members lists the memberships of a group
	Members(ctx *gin.Context)
	// Approve activates a pending membership
	Approve(ctx *gin.Context)
	// Leaderboard ranks the participants of a group
	Leaderboard(ctx *gin.Context)
}

type groupController struct {
	groups services.GroupService
	now    func() time.Time
}

// NewGroupController creates a new instance of GroupController
func NewGroupController(groups services.GroupService) *groupController {
	return &groupController{groups: groups, now: time.Now}
}

// Create godoc
// @Summary Create a group
// @Description You become its owner and first admin
// @Tags groups
// @Accept json
// @Produce json
// @Param group body services.NewGroup true "Group"
// @Success 201 {object} models.Group
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/groups [post]
func (c *groupController) Create(ctx *gin.Context) {
	var input services.NewGroup
	if err := ctx.ShouldBindJSON(&input); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}
	group, err := c.groups.Create(ctx.Request.Context(), currentUser(ctx), input)
	if err != nil {
		respondError(ctx, err, models.ErrGroupNotFound)
		return
	}
	ctx.JSON(http.StatusCreated, group)
}

// Get godoc
// @Summary Get a group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} models.Group
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/groups/{id} [get]
func (c *groupController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	group, err := c.groups.Get(ctx.Request.Context(), id, currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrGroupNotFound)
		return
	}
	ctx.JSON(http.StatusOK, group)
}

// Join godoc
// @Summary Join a group
// @Description Public groups accept immediately; others leave the request pending
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 201 {object} models.GroupMember
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/groups/{id}/join [post]
func (c *groupController) Join(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	member, err := c.groups.Join(ctx.Request.Context(), id, currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrGroupNotFound)
		return
	}
	ctx.JSON(http.StatusCreated, member)
}

type addMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// AddMember godoc
// @Summary Add a member
// @Description The owner adds a user as an active member
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param member body addMemberRequest true "User"
// @Success 200 {object} models.GroupMember
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/groups/{id}/members [post]
func (c *groupController) AddMember(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req addMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}
	member, err := c.groups.AddMember(ctx.Request.Context(), id, currentUser(ctx), req.UserID)
	if err != nil {
		respondError(ctx, err, models.ErrGroupNotFound)
		return
	}
	ctx.JSON(http.StatusOK, member)
}

// Members godoc
// @Summary List members
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} models.GroupMember
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/groups/{id}/members [get]
func (c *groupController) Members(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	members, err := c.groups.Members(ctx.Request.Context(), id, currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrGroupNotFound)
		return
	}
	ctx.JSON(http.StatusOK, members)
}

// Approve godoc
// @Summary Approve a membership
// @Description The owner or a group admin activates a pending membership
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "User ID"
// @Success 200 {object} models.GroupMember
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/groups/{id}/members/{userId}/approve [post]
func (c *groupController) Approve(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := pathID(ctx, "userId")
	if !ok {
		return
	}
	member, err := c.groups.Approve(ctx.Request.Context(), id, currentUser(ctx), userID)
	if err != nil {
		respondError(ctx, err, models.ErrGroupNotFound)
		return
	}
	ctx.JSON(http.StatusOK, member)
}

// Leaderboard godoc
// @Summary Group leaderboard
// @Description Owner and active members ranked by pizzas, base counts included for whole years
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param year query int false "Year"
// @Param month query int false "Month 1-12"
// @Param view query string false "around, top10, top50 or all"
// @Param page query int false "Page for view=all"
// @Param size query int false "Page size for view=all"
// @Param search query string false "Center on the first matching user"
// @Success 200 {object} services.LeaderboardView
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/groups/{id}/leaderboard [get]
func (c *groupController) Leaderboard(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	q, ok := leaderboardQuery(ctx, c.now())
	if !ok {
		return
	}
	board, err := c.groups.Leaderboard(ctx.Request.Context(), id, currentUser(ctx), q)
	if err != nil {
		respondError(ctx, err, models.ErrGroupNotFound)
		return
	}
	ctx.JSON(http.StatusOK, board)
}
