package models

import (
	"time"

	"gorm.io/gorm"
)

// Session backs the session cookie. Only the SHA-256 of the cookie secret is stored.
type Session struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	AccountID  string    `gorm:"type:varchar(36);not null;index"`
	SecretHash string    `gorm:"uniqueIndex;not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(_ *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// OAuthToken is a short-lived, single-use credential exchanged for a Session
// on the OAuth callback.
type OAuthToken struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	AccountID  string    `gorm:"type:varchar(36);not null;index"`
	SecretHash string    `gorm:"uniqueIndex;not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	CreatedAt  time.Time
}

func (OAuthToken) TableName() string {
	return "oauth_tokens"
}

func (t *OAuthToken) BeforeCreate(_ *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
