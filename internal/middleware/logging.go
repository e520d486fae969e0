package middleware

import (
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id and logs its outcome
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if userID, ok := c.Get(UserIDKey); ok {
			entry = entry.WithField("user_id", userID)
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}

// Loaders gives each request its own profile loader so repeated lookups within
// the request hit the database once.
func Loaders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := store.WithLoader(c.Request.Context(), store.NewProfileLoader(db))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
