package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	BaseUUIDModel
	Name         string     `gorm:"type:text"               json:"name"`
	Email        string     `gorm:"type:text;uniqueIndex"   json:"email"`
	PasswordHash string     `gorm:"type:text"               json:"-"`
	IsAdmin      bool       `gorm:"type:bool;default:false" json:"isAdmin"`
	IsActive     bool       `gorm:"type:bool;default:true"  json:"isActive"`
	LastLoginAt  *time.Time `gorm:"type:timestamp"          json:"lastLoginAt,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Name == "" {
		u.Name = u.Email
	}
	return nil
}

// SetPassword hashes and stores the given plaintext password
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the given plaintext matches the stored hash
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// UserProfile represents public user information returned to clients
type UserProfile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	IsAdmin     bool       `json:"isAdmin"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// ToProfile converts a User to its public profile projection
func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:          u.ID.String(),
		Name:        u.Name,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
	}
}
