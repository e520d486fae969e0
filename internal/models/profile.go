package models

import (
	"time"
)

// Visibility controls who may see a part of a profile
type Visibility string

const (
	VisibilityEveryone Visibility = "everyone"
	VisibilityFriends  Visibility = "friends"
	VisibilityGroups   Visibility = "groups"
	VisibilityNone     Visibility = "none"
)

// Valid reports whether v is one of the known visibility levels
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityEveryone, VisibilityFriends, VisibilityGroups, VisibilityNone:
		return true
	}
	return false
}

// Profile is the public face of a User, 1:1 keyed by the user id
type Profile struct {
	ID              uint       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username        *string    `gorm:"uniqueIndex;size:20" json:"username"`
	DisplayName     string     `gorm:"size:100" json:"display_name"`
	Email           string     `gorm:"-" json:"email,omitempty"`
	PizzaVisibility Visibility `gorm:"type:varchar(20);default:'everyone'" json:"pizza_visibility"`
	EmailVisibility Visibility `gorm:"type:varchar(20);default:'none'" json:"email_visibility"`
	NeedsOnboarding bool       `gorm:"default:true" json:"needs_onboarding"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Handle returns the username or an empty string when onboarding is incomplete
func (p Profile) Handle() string {
	if p.Username == nil {
		return ""
	}
	return *p.Username
}

// ProfileUpdate is used for partial updates of a profile
type ProfileUpdate struct {
	Username        *string     `json:"username"`
	DisplayName     *string     `json:"display_name"`
	PizzaVisibility *Visibility `json:"pizza_visibility"`
	EmailVisibility *Visibility `json:"email_visibility"`
}
