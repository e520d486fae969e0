package controllers

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// StatsController handles the global statistics pages
type StatsController interface {
	// Global builds the global statistics dashboard
	Global(ctx *gin.Context)
	// Combinations lists ingredient combinations
	Combinations(ctx *gin.Context)
}

type statsController struct {
	stats services.StatsService
	now   func() time.Time
}

// NewStatsController creates a new instance of StatsController
func NewStatsController(stats services.StatsService) *statsController {
	return &statsController{stats: stats, now: time.Now}
}

// Global godoc
// @Summary Global statistics
// @Description Dashboard over every user. Sections that fail carry an error while the rest still render.
// @Tags stats
// @Produce json
// @Param year query int false "Year, defaults to the current one"
// @Param month query int false "Month 1-12, omitted for the whole year"
// @Param view query string false "Leaderboard window: around, top10, top50, all"
// @Param page query int false "Page for view=all"
// @Param size query int false "Page size for view=all"
// @Param search query string false "Center the leaderboard on the first matching user"
// @Success 200 {object} services.GlobalStats
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/stats/global [get]
func (c *statsController) Global(ctx *gin.Context) {
	q, ok := leaderboardQuery(ctx, c.now())
	if !ok {
		return
	}
	global, err := c.stats.Global(ctx.Request.Context(), currentUser(ctx), q)
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	ctx.JSON(http.StatusOK, global)
}

// Combinations godoc
// @Summary Ingredient combinations
// @Description Every combination of two or more ingredients eaten together
// @Tags stats
// @Produce json
// @Param year query int false "Year, omitted for all time"
// @Success 200 {array} services.NamedCombination
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/stats/combinations [get]
func (c *statsController) Combinations(ctx *gin.Context) {
	year, err := queryInt(ctx, "year", 0)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	combos, err := c.stats.Combinations(ctx.Request.Context(), year)
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	if combos == nil {
		combos = []services.NamedCombination{}
	}
	ctx.JSON(http.StatusOK, combos)
}
