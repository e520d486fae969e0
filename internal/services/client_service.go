package services

import (
	"context"
	"strings"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewClient is the input of ClientService.Create
type NewClient struct {
	Name   string `json:"name" binding:"required"`
	Domain string `json:"domain"`
	Scopes string `json:"scopes"`
}

// IssuedClient is a freshly created client with its plain secret, shown only once
type IssuedClient struct {
	Client models.OAuthClient
	Secret string
}

// ClientService manages the machine clients allowed to use the client_credentials grant
type ClientService interface {
	// Create registers a client acting as ownerID
	Create(ctx context.Context, ownerID uint, input NewClient) (IssuedClient, error)
	List(ctx context.Context, ownerID uint) ([]models.OAuthClient, error)
	// Delete removes one of ownerID's clients and revokes its tokens
	Delete(ctx context.Context, clientID string, ownerID uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) Create(ctx context.Context, ownerID uint, input NewClient) (IssuedClient, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return IssuedClient{}, invalid("client name is required")
	}
	if input.Scopes == "" {
		input.Scopes = "read"
	}

	secret := uuid.New().String()
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return IssuedClient{}, err
	}
	client := models.OAuthClient{
		ID:         uuid.New().String(),
		Secret:     string(hashed),
		Name:       name,
		Domain:     input.Domain,
		Scopes:     input.Scopes,
		GrantTypes: "client_credentials",
		UserID:     ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return IssuedClient{}, err
	}
	log.WithFields(logrus.Fields{"client_id": client.ID, "owner_id": ownerID}).Info("OAuth client created")
	return IssuedClient{Client: client, Secret: secret}, nil
}

func (s *clientService) List(ctx context.Context, ownerID uint) ([]models.OAuthClient, error) {
	var clients []models.OAuthClient
	if err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("created_at").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (s *clientService) Delete(ctx context.Context, clientID string, ownerID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", clientID, ownerID).Delete(&models.OAuthClient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "client")
		}
		return tx.Where("client_id = ?", clientID).Delete(&models.OAuthToken{}).Error
	})
}
