package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/auth"
	"github.com/franciscosanchezn/pizza-tracker/internal/middleware"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// RouterConfig is everything the HTTP surface is built from
type RouterConfig struct {
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration
	Logger    *logrus.Logger
	// Swagger serves the API docs under /swagger
	Swagger bool
}

// NewRouter wires services, controllers and middleware into a gin engine
func NewRouter(cfg RouterConfig) *gin.Engine {
	db := cfg.DB
	users := services.NewUserService(db)
	profiles := services.NewProfileService(db)
	statsService := services.NewStatsService(db, profiles)

	var (
		authController       AuthController       = NewAuthController(users, profiles, cfg.JWTSecret, cfg.TokenTTL)
		pizzaController      PizzaController      = NewPizzaController(services.NewPizzaService(db), services.NewCounterService(db))
		profileController    ProfileController    = NewProfileController(profiles, users, statsService)
		ingredientController IngredientController = NewIngredientController(services.NewIngredientService(db))
		groupController      GroupController      = NewGroupController(services.NewGroupService(db))
		friendController     FriendController     = NewFriendController(services.NewFriendService(db), profiles)
		statsController      StatsController      = NewStatsController(statsService)
		clientController     ClientController     = NewClientController(services.NewClientService(db))
	)
	oauthService := auth.NewOAuthService(db, cfg.JWTSecret, cfg.TokenTTL)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(cfg.Logger), middleware.Loaders(db))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(db))
		v1.POST("/auth/register", authController.Register)
		v1.POST("/auth/login", authController.Login)
		v1.POST("/oauth/token", oauthService.HandleToken)

		protectedApi := v1.Group("")
		protectedApi.Use(middleware.JWTAuth([]byte(cfg.JWTSecret)))
		{
			protectedApi.GET("/me/profile", profileController.GetMe)
			protectedApi.PUT("/me/profile", profileController.UpdateMe)
			protectedApi.POST("/me/onboarding", profileController.Onboarding)
			protectedApi.GET("/home", profileController.Home)
			protectedApi.GET("/profiles/:username", profileController.GetByUsername)

			protectedApi.POST("/pizzas", pizzaController.Log)
			protectedApi.GET("/pizzas", pizzaController.List)
			protectedApi.PUT("/pizzas/:id/details", pizzaController.AddDetails)
			protectedApi.DELETE("/pizzas/last", pizzaController.UndoLast)
			protectedApi.PUT("/counters/:year", pizzaController.SetBaseCount)

			protectedApi.GET("/ingredients", ingredientController.List)
			protectedApi.GET("/ingredients/:id", ingredientController.Page)

			protectedApi.POST("/groups", groupController.Create)
			protectedApi.GET("/groups/:id", groupController.Get)
			protectedApi.POST("/groups/:id/join", groupController.Join)
			protectedApi.GET("/groups/:id/members", groupController.Members)
			protectedApi.POST("/groups/:id/members", groupController.AddMember)
			protectedApi.POST("/groups/:id/members/:userId/approve", groupController.Approve)
			protectedApi.GET("/groups/:id/leaderboard", groupController.Leaderboard)

			protectedApi.GET("/friends", friendController.List)
			protectedApi.POST("/friends", friendController.Request)
			protectedApi.POST("/friends/:id/accept", friendController.Accept)
			protectedApi.GET("/friends/leaderboard", friendController.Leaderboard)

			protectedApi.GET("/stats/global", statsController.Global)
			protectedApi.GET("/stats/combinations", statsController.Combinations)

			adminApi := protectedApi.Group("/admin")
			adminApi.Use(middleware.RequireRole("admin"))
			{
				adminApi.POST("/ingredients", ingredientController.Create)
				adminApi.POST("/clients", clientController.CreateClient)
				adminApi.GET("/clients", clientController.ListClients)
				adminApi.DELETE("/clients/:id", clientController.DeleteClient)
			}
		}
	}

	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return router
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service and its database are reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/health [get]
func healthCheckHandler(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
		ctx.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "pizza-tracker",
		})
	}
}
