package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by JWTAuth
const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
	ClientIDKey = "clientID"
	ScopesKey   = "scopes"
)

var allowedRoles = map[string]bool{
	"admin": true,
	"user":  true,
}

// JWTAuth validates the Bearer token of login and client-credentials tokens alike
// and stores the caller's id and role in the gin context.
func JWTAuth(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "authorization_required",
				"Missing Authorization header. A valid Bearer token is required.")
			return
		}
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			respondWithOAuth2Error(c, http.StatusUnauthorized, models.ErrInvalidRequest,
				"Authorization header must use Bearer scheme. Format: 'Bearer <token>'")
			return
		}
		if tokenString == "" {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", "Bearer token is empty")
			return
		}

		claims, err := parseJWTToken(tokenString, jwtSecret)
		if err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}
		if err := setClaims(c, claims); err != nil {
			respondWithOAuth2Error(c, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}

		c.Next()
	}
}

// respondWithOAuth2Error responds with the RFC 6750 error format
func respondWithOAuth2Error(c *gin.Context, status int, errorCode, description string) {
	c.AbortWithStatusJSON(status, models.NewOAuth2Error(errorCode, description))
}

// parseJWTToken validates signature, exp, nbf and iat of an HMAC-signed token
func parseJWTToken(tokenString string, jwtSecret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// reject alg switching
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v. Expected HMAC", token.Header["alg"])
		}
		return jwtSecret, nil
	}, jwt.WithIssuedAt(), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token has expired")
		}
		return nil, fmt.Errorf("token parsing failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims format")
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims jwt.MapClaims) error {
	userID, err := extractUserID(claims)
	if err != nil {
		return err
	}
	role, err := extractRole(claims)
	if err != nil {
		return err
	}
	c.Set(UserIDKey, userID)
	c.Set(UserRoleKey, role)

	if aud, err := claims.GetAudience(); err == nil && len(aud) > 0 {
		c.Set(ClientIDKey, aud[0])
	}
	if scope, ok := claims["scope"].(string); ok && scope != "" {
		c.Set(ScopesKey, scope)
	}
	return nil
}

// extractUserID reads the "uid" claim, which is a numeric string
func extractUserID(claims jwt.MapClaims) (uint, error) {
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return 0, fmt.Errorf("token missing required 'uid' claim. This token is not valid for this API")
	}
	parsedID, err := strconv.ParseUint(uid, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid uid claim format: must be a numeric string, got: %s", uid)
	}
	if parsedID == 0 {
		return 0, fmt.Errorf("invalid user identifier: cannot be zero")
	}
	return uint(parsedID), nil
}

// extractRole requires an explicit, known role claim
func extractRole(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("token missing required 'role' claim. Tokens must explicitly specify user roles")
	}
	if !allowedRoles[role] {
		return "", fmt.Errorf("invalid role '%s'. Allowed roles: admin, user", role)
	}
	return role, nil
}
