package auth

import (
	"time"

	"github.com/go-oauth2/oauth2/v4"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// OAuthService issues tokens to machine clients via the client_credentials grant
type OAuthService struct {
	server *server.Server
	db     *gorm.DB
}

func NewOAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *OAuthService {
	manager := manage.NewDefaultManager()
	manager.SetClientTokenCfg(&manage.Config{AccessTokenExp: tokenTTL})

	manager.MapAccessGenerate(NewAccessGenerate([]byte(jwtSecret), jwt.SigningMethodHS512, db))
	manager.MustTokenStorage(NewGormTokenStore(db), nil)
	manager.MapClientStorage(NewGormClientStore(db))

	cfg := server.NewConfig()
	cfg.AllowedGrantTypes = []oauth2.GrantType{oauth2.ClientCredentials}
	srv := server.NewServer(cfg, manager)
	srv.SetClientInfoHandler(server.ClientFormHandler)

	return &OAuthService{
		server: srv,
		db:     db,
	}
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}
