package models

import (
	"time"
)

// OAuthToken records an access token issued to a machine client
type OAuthToken struct {
	ID          uint   `gorm:"primaryKey"`
	ClientID    string `gorm:"index;not null"`
	UserID      string
	AccessToken string `gorm:"uniqueIndex;not null"`
	Scopes      string
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}
