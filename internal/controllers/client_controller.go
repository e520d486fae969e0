package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/gin-gonic/gin"
)

// ClientController handles OAuth2 client administration
type ClientController interface {
	// CreateClient creates an OAuth2 client for the caller
	CreateClient(ctx *gin.Context)
	// ListClients lists the caller's OAuth2 clients
	ListClients(ctx *gin.Context)
	// DeleteClient deletes one of the caller's OAuth2 clients
	DeleteClient(ctx *gin.Context)
}

type clientController struct {
	clientService services.ClientService
}

// NewClientController creates a new instance of ClientController
func NewClientController(clientService services.ClientService) *clientController {
	return &clientController{clientService: clientService}
}

// CreateClient godoc
// @Summary Create OAuth2 client
// @Description Create a client_credentials client whose tokens act as you
// @Tags admin
// @Accept json
// @Produce json
// @Param client body services.NewClient true "Client details"
// @Success 201 {object} map[string]interface{} "Client created with client_id and client_secret"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Client creation failed"
// @Security BearerAuth
// @Router /api/v1/admin/clients [post]
func (c *clientController) CreateClient(ctx *gin.Context) {
	var req services.NewClient
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err.Error())
		return
	}

	issued, err := c.clientService.Create(ctx.Request.Context(), currentUser(ctx), req)
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"client_id":     issued.Client.ID,
		"client_secret": issued.Secret, // shown only once
		"name":          issued.Client.Name,
		"scopes":        issued.Client.Scopes,
		"grant_types":   issued.Client.GrantTypes,
	})
}

// ListClients godoc
// @Summary List OAuth2 clients
// @Description Get all OAuth2 clients owned by the authenticated user
// @Tags admin
// @Produce json
// @Success 200 {array} object "List of clients"
// @Security BearerAuth
// @Router /api/v1/admin/clients [get]
func (c *clientController) ListClients(ctx *gin.Context) {
	clients, err := c.clientService.List(ctx.Request.Context(), currentUser(ctx))
	if err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}

	out := make([]gin.H, 0, len(clients))
	for _, client := range clients {
		out = append(out, gin.H{
			"client_id":  client.ID,
			"name":       client.Name,
			"scopes":     client.Scopes,
			"created_at": client.CreatedAt,
		})
	}
	ctx.JSON(http.StatusOK, out)
}

// DeleteClient godoc
// @Summary Delete OAuth2 client
// @Description Delete one of your clients and revoke its tokens
// @Tags admin
// @Param id path string true "Client ID"
// @Success 204 "Client deleted successfully"
// @Failure 404 {object} map[string]string "Client not found"
// @Security BearerAuth
// @Router /api/v1/admin/clients/{id} [delete]
func (c *clientController) DeleteClient(ctx *gin.Context) {
	if err := c.clientService.Delete(ctx.Request.Context(), ctx.Param("id"), currentUser(ctx)); err != nil {
		respondError(ctx, err, models.ErrNotFound)
		return
	}
	ctx.Status(http.StatusNoContent)
}
