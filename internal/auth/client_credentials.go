package auth

import (
	"errors"
	"net/http"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	oautherrors "github.com/go-oauth2/oauth2/v4/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
}

// SetLogLevel aligns the auth logger with the application's level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// HandleToken handles the token endpoint for machine clients
// @Summary Token Endpoint
// @Description Obtain an access token using the client credentials grant
// @Tags OAuth2
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "Grant type: client_credentials"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client Secret"
// @Param scope formData string false "Requested scope"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	if oauth2.GrantType(c.PostForm("grant_type")) != oauth2.ClientCredentials {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType, "only client_credentials is supported"))
		return
	}

	gt, req, err := o.server.ValidationTokenRequest(c.Request)
	if err != nil {
		o.tokenError(c, err)
		return
	}
	ti, err := o.server.GetAccessToken(c.Request.Context(), gt, req)
	if err != nil {
		o.tokenError(c, err)
		return
	}

	log.WithFields(logrus.Fields{"client_id": ti.GetClientID(), "user_id": ti.GetUserID()}).Info("Client token issued")
	c.JSON(http.StatusOK, gin.H{
		"access_token": ti.GetAccess(),
		"token_type":   "Bearer",
		"expires_in":   int64(ti.GetAccessExpiresIn().Seconds()),
		"scope":        ti.GetScope(),
	})
}

func (o *OAuthService) tokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, oautherrors.ErrInvalidClient):
		c.JSON(http.StatusUnauthorized, models.NewOAuth2Error(models.ErrInvalidClient, "client authentication failed"))
	case errors.Is(err, oautherrors.ErrUnsupportedGrantType):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnsupportedGrantType, err.Error()))
	case errors.Is(err, oautherrors.ErrUnauthorizedClient):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrUnauthorizedClient, err.Error()))
	case errors.Is(err, oautherrors.ErrInvalidScope):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidScope, err.Error()))
	case errors.Is(err, oautherrors.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, err.Error()))
	case errors.Is(err, ErrNoUser):
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidGrant, "client owner no longer exists"))
	default:
		log.WithError(err).Error("Token generation failed")
		c.JSON(http.StatusInternalServerError, models.NewOAuth2Error("server_error", "token generation failed"))
	}
}
