package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the authentication identity. Everything shown to other users lives on Profile.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `gorm:"-" json:"-"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:'user'" json:"role"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string {
	return "users"
}

// HashPassword replaces the plain Password with its bcrypt hash
func (u *User) HashPassword() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Password = ""
	return nil
}

// CheckPassword reports whether plain matches the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
