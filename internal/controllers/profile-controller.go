package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// ProfileController serves the signed-in user's profile and other users' profiles
type ProfileController interface {
	// GetMe retrieves the caller's profile
	GetMe(ctx *gin.Context)
	// UpdateMe partially updates the caller's profile
	UpdateMe(ctx *gin.Context)
	// Onboarding completes the caller's onboarding
	Onboarding(ctx *gin.Context)
	// GetByUsername retrieves another user's profile and ranks
	GetByUsername(ctx *gin.Context)
	// Home builds the caller's home page
	Home(ctx *gin.Context)
}

type profileController struct {
	profiles services.ProfileService
	users    services.UserService
	stats    services.StatsService
}

// NewProfileController creates a new instance of ProfileController
func NewProfileController(profiles services.ProfileService, users services.UserService, stats services.StatsService) *profileController {
	return &profileController{profiles: profiles, users: users, stats: stats}
}

// GetMe godoc
// @Summary Your profile
// @Tags profiles
// @Produce json
// @Success 200 {object} models.Profile
// @Security BearerAuth
// @Router /api/v1/me/profile [get]
func (c *profileController) GetMe(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	profile, err := c.profiles.Get(reqCtx, currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}
	user, err := c.users.GetUserByID(reqCtx, currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}
	profile.Email = user.Email
	ctx.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update your profile
// @Description Partial update; any invalid field rejects the whole request
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body models.ProfileUpdate true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/me/profile [put]
func (c *profileController) UpdateMe(ctx *gin.Context) {
	var update models.ProfileUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}
	profile, err := c.profiles.Update(ctx.Request.Context(), currentUser(ctx), update)
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

type onboardingRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
}

// Onboarding godoc
// @Summary Complete onboarding
// @Description Chooses a username (3-20 letters, digits, '_' or '.') and a display name
// @Tags profiles
// @Accept json
// @Produce json
// @Param onboarding body onboardingRequest true "Username"
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/me/onboarding [post]
func (c *profileController) Onboarding(ctx *gin.Context) {
	var req onboardingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}
	profile, err := c.profiles.CompleteOnboarding(ctx.Request.Context(), currentUser(ctx), req.Username, req.DisplayName)
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// GetByUsername godoc
// @Summary A user's profile
// @Description Profile and ranks, limited by the user's visibility settings
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} services.ProfileView
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/profiles/{username} [get]
func (c *profileController) GetByUsername(ctx *gin.Context) {
	view, err := c.stats.Profile(ctx.Request.Context(), currentUser(ctx), ctx.Param("username"))
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// Home godoc
// @Summary Home page
// @Description Your yearly counter and the global ranks where you are in the top 10
// @Tags profiles
// @Produce json
// @Success 200 {object} services.Home
// @Security BearerAuth
// @Router /api/v1/home [get]
func (c *profileController) Home(ctx *gin.Context) {
	home, err := c.stats.Home(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}
	ctx.JSON(http.StatusOK, home)
}
