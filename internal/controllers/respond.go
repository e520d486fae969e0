package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/middleware"
	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/services"
	"github.com/franciscosanchezn/pizza-tracker/internal/stats"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

// SetLogLevel aligns the controllers logger with the application's level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// respondError maps a service error to its status and API error code.
// notFoundCode refines the generic NOT_FOUND for the resource of the handler.
func respondError(ctx *gin.Context, err error, notFoundCode string) {
	status, code := http.StatusInternalServerError, models.ErrInternalServer
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, models.ErrUnauthorized
	case errors.Is(err, services.ErrNothingToUndo):
		status, code = http.StatusNotFound, models.ErrNothingToUndo
	case errors.Is(err, stats.ErrNoMatch):
		status, code = http.StatusNotFound, models.ErrNoLeaderboardMatch
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, notFoundCode
	case errors.Is(err, services.ErrUsernameTaken):
		status, code = http.StatusConflict, models.ErrUsernameTaken
	case errors.Is(err, services.ErrConflict):
		status, code = http.StatusConflict, models.ErrConflict
	case errors.Is(err, services.ErrForbidden):
		status, code = http.StatusForbidden, models.ErrForbidden
	case errors.Is(err, services.ErrValidation):
		status, code = http.StatusBadRequest, models.ErrValidationFailed
	}
	if code == "" {
		code = models.ErrNotFound
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.WithFields(logrus.Fields{
			"request_id": ctx.GetString("requestID"),
			"path":       ctx.FullPath(),
		}).WithError(err).Error("Request failed")
		message = "internal server error"
	}
	ctx.JSON(status, models.NewAPIError(code, message))
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, message))
}

func currentUser(ctx *gin.Context) uint {
	return ctx.GetUint(middleware.UserIDKey)
}

// pathID parses a positive numeric path parameter, answering 400 when it is not one
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryInt reads an optional integer query parameter
func queryInt(ctx *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + name)
	}
	return v, nil
}

// leaderboardQuery reads year, month, view, page, size and search
func leaderboardQuery(ctx *gin.Context, now time.Time) (services.LeaderboardQuery, bool) {
	q := services.LeaderboardQuery{View: ctx.Query("view"), Search: ctx.Query("search")}
	var month int
	var err error
	if q.Year, err = queryInt(ctx, "year", now.Year()); err == nil {
		if month, err = queryInt(ctx, "month", 0); err == nil {
			if q.Page, err = queryInt(ctx, "page", 1); err == nil {
				q.Size, err = queryInt(ctx, "size", stats.DefaultPageSize)
			}
		}
	}
	if err != nil {
		badRequest(ctx, err.Error())
		return q, false
	}
	q.Month = time.Month(month)
	return q, true
}
