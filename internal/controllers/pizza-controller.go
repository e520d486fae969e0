package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// PizzaController handles logging pizzas and the yearly counters
type PizzaController interface {
	// Log records a pizza eaten today
	Log(ctx *gin.Context)
	// AddDetails sets date, rating, origin and ingredients of a pizza
	AddDetails(ctx *gin.Context)
	// UndoLast deletes the most recently logged pizza
	UndoLast(ctx *gin.Context)
	// List lists the pizzas of a year with its total
	List(ctx *gin.Context)
	// SetBaseCount stores the base count of a year
	SetBaseCount(ctx *gin.Context)
}

type pizzaController struct {
	pizzas   services.PizzaService
	counters services.CounterService
	now      func() time.Time
}

// NewPizzaController creates a new instance of PizzaController
func NewPizzaController(pizzas services.PizzaService, counters services.CounterService) *pizzaController {
	return &pizzaController{pizzas: pizzas, counters: counters, now: time.Now}
}

// Log godoc
// @Summary Log a pizza
// @Description Records one pizza eaten today. Details can be added afterwards.
// @Tags pizzas
// @Produce json
// @Success 201 {object} models.Pizza
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/pizzas [post]
func (c *pizzaController) Log(ctx *gin.Context) {
	pizza, err := c.pizzas.Log(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrPizzaNotFound)
		return
	}
	ctx.JSON(http.StatusCreated, pizza)
}

// AddDetails godoc
// @Summary Add pizza details
// @Description Sets date, rating (0-10), origin and ingredients of one of your pizzas
// @Tags pizzas
// @Accept json
// @Produce json
// @Param id path int true "Pizza ID"
// @Param details body services.PizzaDetails true "Details"
// @Success 200 {object} models.Pizza
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/pizzas/{id}/details [put]
func (c *pizzaController) AddDetails(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var details services.PizzaDetails
	if err := ctx.ShouldBindJSON(&details); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}
	pizza, err := c.pizzas.AddDetails(ctx.Request.Context(), currentUser(ctx), id, details)
	if err != nil {
		respondError(ctx, err, models.ErrPizzaNotFound)
		return
	}
	ctx.JSON(http.StatusOK, pizza)
}

// UndoLast godoc
// @Summary Undo the last pizza
// @Description Deletes your most recently logged pizza with its ingredients
// @Tags pizzas
// @Produce json
// @Success 200 {object} models.Pizza
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/pizzas/last [delete]
func (c *pizzaController) UndoLast(ctx *gin.Context) {
	pizza, err := c.pizzas.UndoLast(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrPizzaNotFound)
		return
	}
	ctx.JSON(http.StatusOK, pizza)
}

// List godoc
// @Summary List your pizzas
// @Description Your pizzas of a year, newest first, with the year's total
// @Tags pizzas
// @Produce json
// @Param year query int false "Year, defaults to the current one"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/pizzas [get]
func (c *pizzaController) List(ctx *gin.Context) {
	year, err := queryInt(ctx, "year", c.now().Year())
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}
	reqCtx := ctx.Request.Context()
	pizzas, err := c.pizzas.List(reqCtx, currentUser(ctx), year)
	if err != nil {
		respondError(ctx, err, models.ErrPizzaNotFound)
		return
	}
	total, err := c.pizzas.Total(reqCtx, currentUser(ctx), year)
	if err != nil {
		respondError(ctx, err, models.ErrPizzaNotFound)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"pizzas": pizzas, "total": total})
}

type baseCountRequest struct {
	BaseCount *int `json:"base_count" binding:"required"`
}

// SetBaseCount godoc
// @Summary Set a yearly base count
// @Description Pizzas eaten in a year before logging started, added to your totals
// @Tags pizzas
// @Accept json
// @Produce json
// @Param year path int true "Year"
// @Param counter body baseCountRequest true "Base count"
// @Success 200 {object} models.UserYearlyCounter
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/counters/{year} [put]
func (c *pizzaController) SetBaseCount(ctx *gin.Context) {
	year, err := strconv.Atoi(ctx.Param("year"))
	if err != nil {
		badRequest(ctx, "invalid year")
		return
	}
	var req baseCountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}
	counter, err := c.counters.SetBaseCount(ctx.Request.Context(), currentUser(ctx), year, *req.BaseCount)
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	ctx.JSON(http.StatusOK, counter)
}
