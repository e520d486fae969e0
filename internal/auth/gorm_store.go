package auth

import (
	"context"
	"errors"
	"time"

	internalmodels "github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/go-oauth2/oauth2/v4"
	oautherrors "github.com/go-oauth2/oauth2/v4/errors"
	oauthmodels "github.com/go-oauth2/oauth2/v4/models"
	"gorm.io/gorm"
)

// ErrCodeFlowDisabled is returned for authorization codes, which this server never issues
var ErrCodeFlowDisabled = errors.New("authorization code flow is not supported")

type GormClientStore struct {
	db *gorm.DB
}

func NewGormClientStore(db *gorm.DB) *GormClientStore {
	return &GormClientStore{db: db}
}

func (s *GormClientStore) GetByID(ctx context.Context, id string) (oauth2.ClientInfo, error) {
	var client internalmodels.OAuthClient
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, oautherrors.ErrInvalidClient
	}
	if err != nil {
		return nil, err
	}
	// OAuthClient implements ClientPasswordVerifier, so secrets are checked against the hash
	return &client, nil
}

// GormTokenStore keeps issued access tokens so they can be listed and revoked
type GormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func (s *GormTokenStore) Create(ctx context.Context, info oauth2.TokenInfo) error {
	if info.GetCode() != "" {
		return ErrCodeFlowDisabled
	}
	token := &internalmodels.OAuthToken{
		ClientID:    info.GetClientID(),
		UserID:      info.GetUserID(),
		AccessToken: info.GetAccess(),
		Scopes:      info.GetScope(),
		ExpiresAt:   info.GetAccessCreateAt().Add(info.GetAccessExpiresIn()),
	}
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *GormTokenStore) RemoveByAccess(ctx context.Context, access string) error {
	return s.db.WithContext(ctx).Where("access_token = ?", access).Delete(&internalmodels.OAuthToken{}).Error
}

// RemoveByRefresh is a no-op; no refresh tokens are issued
func (s *GormTokenStore) RemoveByRefresh(ctx context.Context, refresh string) error {
	return nil
}

func (s *GormTokenStore) GetByAccess(ctx context.Context, access string) (oauth2.TokenInfo, error) {
	var token internalmodels.OAuthToken
	if err := s.db.WithContext(ctx).Where("access_token = ?", access).First(&token).Error; err != nil {
		return nil, err
	}
	return &oauthmodels.Token{
		ClientID:        token.ClientID,
		UserID:          token.UserID,
		Access:          token.AccessToken,
		AccessCreateAt:  token.CreatedAt,
		AccessExpiresIn: token.ExpiresAt.Sub(token.CreatedAt),
		Scope:           token.Scopes,
	}, nil
}

func (s *GormTokenStore) GetByRefresh(ctx context.Context, refresh string) (oauth2.TokenInfo, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *GormTokenStore) GetByCode(ctx context.Context, code string) (oauth2.TokenInfo, error) {
	return nil, ErrCodeFlowDisabled
}

func (s *GormTokenStore) RemoveByCode(ctx context.Context, code string) error {
	return ErrCodeFlowDisabled
}

// PurgeExpired deletes tokens that expired before now and returns how many were removed
func (s *GormTokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&internalmodels.OAuthToken{})
	return res.RowsAffected, res.Error
}
