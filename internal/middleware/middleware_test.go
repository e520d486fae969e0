package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/franciscosanchezn/pizza-tracker/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var secret = []byte("test-jwt-secret-key-32-characters")

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"uid":  "42",
		"role": "user",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", JWTAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(UserIDKey), "role": c.GetString(UserRoleKey)})
	})
	router.GET("/admin", JWTAuth(secret), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func get(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	w := get(protectedRouter(), "/me", "Bearer "+sign(t, jwt.SigningMethodHS512, validClaims()))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["user_id"])
	assert.Equal(t, "user", body["role"])
}

func TestJWTAuthRejects(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noUID := validClaims()
	delete(noUID, "uid")
	zeroUID := validClaims()
	zeroUID["uid"] = "0"
	badRole := validClaims()
	badRole["role"] = "root"
	noExp := validClaims()
	delete(noExp, "exp")
	future := validClaims()
	future["iat"] = time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name          string
		authorization string
		wantError     string
	}{
		{"missing header", "", "authorization_required"},
		{"wrong scheme", "Basic abc", "invalid_request"},
		{"empty token", "Bearer ", "invalid_token"},
		{"garbage", "Bearer not-a-jwt", "invalid_token"},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, expired), "invalid_token"},
		{"no uid", "Bearer " + sign(t, jwt.SigningMethodHS256, noUID), "invalid_token"},
		{"zero uid", "Bearer " + sign(t, jwt.SigningMethodHS256, zeroUID), "invalid_token"},
		{"unknown role", "Bearer " + sign(t, jwt.SigningMethodHS256, badRole), "invalid_token"},
		{"no expiry", "Bearer " + sign(t, jwt.SigningMethodHS256, noExp), "invalid_token"},
		{"issued in the future", "Bearer " + sign(t, jwt.SigningMethodHS256, future), "invalid_token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(protectedRouter(), "/me", tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantError)
		})
	}
}

func TestJWTAuthRejectsOtherSecret(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("another-secret"))
	require.NoError(t, err)

	w := get(protectedRouter(), "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	router := protectedRouter()

	w := get(router, "/admin", "Bearer "+sign(t, jwt.SigningMethodHS512, validClaims()))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")

	admin := validClaims()
	admin["role"] = "admin"
	w = get(router, "/admin", "Bearer "+sign(t, jwt.SigningMethodHS512, admin))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(router, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	requestID := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, requestID)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, requestID, entry["request_id"])
	assert.Equal(t, "/health", entry["path"])
	assert.Equal(t, float64(200), entry["status"])

	// a caller supplied id is propagated
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLoadersShareProfilesWithinRequest(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Profile{}))
	name := "anna"
	require.NoError(t, db.Create(&models.Profile{ID: 1, Username: &name}).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Loaders(db))
	var queries []int
	router.GET("/twice", func(c *gin.Context) {
		ctx := c.Request.Context()
		loader := store.LoaderFrom(ctx, db)
		for i := 0; i < 2; i++ {
			_, err := loader.Load(ctx, []uint{1})
			require.NoError(t, err)
		}
		queries = append(queries, store.LoaderFrom(ctx, db).Queries())
		c.Status(http.StatusOK)
	})

	get(router, "/twice", "")
	get(router, "/twice", "")
	assert.Equal(t, []int{1, 1}, queries)
}

func TestRequireAnyRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/either", func(c *gin.Context) {
		c.Set(UserIDKey, uint(3))
		c.Set(UserRoleKey, "user")
	}, RequireRole("admin", "user"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/anonymous", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, get(router, "/either", "").Code)

	w := get(router, "/anonymous", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrUnauthorized)
}
