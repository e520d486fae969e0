package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// ErrNoUser is returned when a token would not identify any user
var ErrNoUser = errors.New("cannot generate token: no user ID available")

// Claims carried by every access token, whether issued at login or to a client
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Scope  string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// IssueUserToken signs a token for user valid for ttl, used by the login endpoint
func IssueUserToken(secret []byte, user *models.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := Claims{
		UserID: strconv.FormatUint(uint64(user.ID), 10),
		Role:   roleOf(user),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func roleOf(user *models.User) string {
	if user.Role == "" {
		return "user"
	}
	return user.Role
}

// AccessGenerate issues client-credentials tokens carrying the owning user's id and role
type AccessGenerate struct {
	SignedKey    []byte
	SignedMethod jwt.SigningMethod
	DB           *gorm.DB
}

func NewAccessGenerate(key []byte, method jwt.SigningMethod, db *gorm.DB) *AccessGenerate {
	return &AccessGenerate{
		SignedKey:    key,
		SignedMethod: method,
		DB:           db,
	}
}

// Token is called by the oauth2 manager for every issued token
func (g *AccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	// client_credentials leaves data.UserID empty; the client's owner is the subject
	userID := data.UserID
	if userID == "" {
		userID = data.Client.GetUserID()
	}
	if userID == "" {
		return "", "", ErrNoUser
	}

	user, err := g.user(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user role: %w", err)
	}

	createdAt := data.TokenInfo.GetAccessCreateAt()
	claims := Claims{
		UserID: userID,
		Role:   roleOf(user),
		Scope:  data.TokenInfo.GetScope(),
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{data.Client.GetID()},
			IssuedAt:  jwt.NewNumericDate(createdAt),
			ExpiresAt: jwt.NewNumericDate(createdAt.Add(data.TokenInfo.GetAccessExpiresIn())),
		},
	}
	access, err := jwt.NewWithClaims(g.SignedMethod, claims).SignedString(g.SignedKey)
	if err != nil {
		return "", "", err
	}
	// client_credentials never issues refresh tokens
	return access, "", nil
}

func (g *AccessGenerate) user(ctx context.Context, id string) (*models.User, error) {
	userID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	var user models.User
	if err := g.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %d not found", userID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}
