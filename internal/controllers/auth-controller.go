package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/auth"
	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthController handles registration and password logins
type AuthController interface {
	// Register creates a user account
	Register(ctx *gin.Context)
	// Login exchanges credentials for a bearer token
	Login(ctx *gin.Context)
}

type authController struct {
	userService    services.UserService
	profileService services.ProfileService
	jwtSecret      []byte
	tokenTTL       time.Duration
}

// NewAuthController creates a new instance of AuthController
func NewAuthController(userService services.UserService, profileService services.ProfileService, jwtSecret string, tokenTTL time.Duration) *authController {
	return &authController{
		userService:    userService,
		profileService: profileService,
		jwtSecret:      []byte(jwtSecret),
		tokenTTL:       tokenTTL,
	}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken     string    `json:"access_token"`
	TokenType       string    `json:"token_type"`
	ExpiresAt       time.Time `json:"expires_at"`
	NeedsOnboarding bool      `json:"needs_onboarding"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates the account and an empty profile that still needs onboarding
// @Tags auth
// @Accept json
// @Produce json
// @Param user body registerRequest true "Credentials"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (c *authController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	user, err := c.userService.Register(ctx.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email, "needs_onboarding": true})
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (c *authController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	user, err := c.userService.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	token, expires, err := auth.IssueUserToken(c.jwtSecret, user, c.tokenTTL)
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	profile, err := c.profileService.Get(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err, models.ErrProfileNotFound)
		return
	}

	ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken:     token,
		TokenType:       "Bearer",
		ExpiresAt:       expires,
		NeedsOnboarding: profile.NeedsOnboarding,
	})
}
