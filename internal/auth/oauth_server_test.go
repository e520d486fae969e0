package auth

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-jwt-secret-key-32-characters"

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.User{}, &models.OAuthClient{}, &models.OAuthToken{})
	require.NoError(t, err)

	return db
}

// seedClient stores an admin-owned client whose plain secret is secret
func seedClient(t *testing.T, db *gorm.DB, id, secret string) *models.User {
	owner := &models.User{Email: id + "@example.com", PasswordHash: "x", Role: "admin"}
	require.NoError(t, db.Create(owner).Error)

	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	require.NoError(t, err)
	client := &models.OAuthClient{
		ID:         id,
		Secret:     string(hashed),
		Domain:     "http://localhost",
		Scopes:     "read",
		UserID:     owner.ID,
		GrantTypes: "client_credentials",
	}
	require.NoError(t, db.Create(client).Error)
	return owner
}

func parse(t *testing.T, token string) *Claims {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
	require.NoError(t, err)
	return claims
}

func TestOAuthServerInitialization(t *testing.T) {
	db := setupTestDB(t)

	oauthService := NewOAuthService(db, testSecret, time.Hour)
	assert.NotNil(t, oauthService)
	assert.NotNil(t, oauthService.GetServer())
}

func TestClientTokenCarriesOwner(t *testing.T) {
	db := setupTestDB(t)
	oauthService := NewOAuthService(db, testSecret, time.Hour)
	owner := seedClient(t, db, "test_client", "test_secret")

	tokenInfo, err := oauthService.GetServer().Manager.GenerateAccessToken(context.Background(), oauth2.ClientCredentials,
		&oauth2.TokenGenerateRequest{ClientID: "test_client", ClientSecret: "test_secret", Scope: "read"})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, tokenInfo.GetAccessExpiresIn())

	claims := parse(t, tokenInfo.GetAccess())
	assert.Equal(t, "1", claims.UserID)
	assert.Equal(t, owner.Role, claims.Role)
	assert.Equal(t, "read", claims.Scope)
	assert.Equal(t, jwt.ClaimStrings{"test_client"}, claims.Audience)

	var stored models.OAuthToken
	require.NoError(t, db.Where("access_token = ?", tokenInfo.GetAccess()).First(&stored).Error)
	assert.Equal(t, "test_client", stored.ClientID)
}

func TestClientWithoutOwnerGetsNoToken(t *testing.T) {
	db := setupTestDB(t)
	oauthService := NewOAuthService(db, testSecret, time.Hour)
	hashed, err := bcrypt.GenerateFromPassword([]byte("s"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.OAuthClient{ID: "orphan", Secret: string(hashed)}).Error)

	_, err = oauthService.GetServer().Manager.GenerateAccessToken(context.Background(), oauth2.ClientCredentials,
		&oauth2.TokenGenerateRequest{ClientID: "orphan", ClientSecret: "s"})
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestIssueUserToken(t *testing.T) {
	user := &models.User{ID: 7}

	token, expires, err := IssueUserToken([]byte(testSecret), user, 2*time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), expires, time.Minute)

	claims := parse(t, token)
	assert.Equal(t, "7", claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestTokenStore(t *testing.T) {
	db := setupTestDB(t)
	store := NewGormTokenStore(db)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, db.Create(&models.OAuthToken{ClientID: "c", AccessToken: "old", ExpiresAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.OAuthToken{ClientID: "c", AccessToken: "fresh", ExpiresAt: now.Add(time.Hour)}).Error)

	info, err := store.GetByAccess(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "c", info.GetClientID())

	removed, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = store.GetByCode(ctx, "anything")
	assert.ErrorIs(t, err, ErrCodeFlowDisabled)

	require.NoError(t, store.RemoveByAccess(ctx, "fresh"))
	_, err = store.GetByAccess(ctx, "fresh")
	assert.Error(t, err)
}

func TestClientStoreIntegration(t *testing.T) {
	db := setupTestDB(t)
	seedClient(t, db, "integration_test_client", "integration_test_secret")

	clientStore := NewGormClientStore(db)
	retrievedClient, err := clientStore.GetByID(context.Background(), "integration_test_client")
	require.NoError(t, err)

	verifier, ok := retrievedClient.(oauth2.ClientPasswordVerifier)
	require.True(t, ok)
	assert.True(t, verifier.VerifyPassword("integration_test_secret"))
	assert.False(t, verifier.VerifyPassword("wrong"))
}
