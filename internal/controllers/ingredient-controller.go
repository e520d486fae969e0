package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// IngredientController handles the ingredient catalog and ingredient pages
type IngredientController interface {
	// List retrieves the ingredient catalog
	List(ctx *gin.Context)
	// Page builds the page of one ingredient
	Page(ctx *gin.Context)
	// Create adds an ingredient to the catalog
	Create(ctx *gin.Context)
}

type ingredientController struct {
	ingredients services.IngredientService
}

// NewIngredientController creates a new instance of IngredientController
func NewIngredientController(ingredients services.IngredientService) *ingredientController {
	return &ingredientController{ingredients: ingredients}
}

// List godoc
// @Summary Ingredient catalog
// @Tags ingredients
// @Produce json
// @Success 200 {array} models.Ingredient
// @Security BearerAuth
// @Router /api/v1/ingredients [get]
func (c *ingredientController) List(ctx *gin.Context) {
	ingredients, err := c.ingredients.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, models.ErrIngredientNotFound)
		return
	}
	ctx.JSON(http.StatusOK, ingredients)
}

// Page godoc
// @Summary Ingredient page
// @Description All-time uses, average rating, badges, weekday split and companions
// @Tags ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} services.IngredientPage
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/ingredients/{id} [get]
func (c *ingredientController) Page(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	page, err := c.ingredients.Page(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, models.ErrIngredientNotFound)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

type ingredientRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create godoc
// @Summary Add a catalog ingredient
// @Tags admin
// @Accept json
// @Produce json
// @Param ingredient body ingredientRequest true "Ingredient"
// @Success 201 {object} models.Ingredient
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/admin/ingredients [post]
func (c *ingredientController) Create(ctx *gin.Context) {
	var req ingredientRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}
	ingredient, err := c.ingredients.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		respondError(ctx, err, models.ErrIngredientNotFound)
		return
	}
	ctx.JSON(http.StatusCreated, ingredient)
}
