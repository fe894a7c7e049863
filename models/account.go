package models

import (
	"time"

	"gorm.io/gorm"
)

// Account is the sign-in identity behind a User profile.
// Password accounts carry a bcrypt hash; OAuth accounts carry the Auth0 subject.
type Account struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	PasswordHash *string   `json:"-"`
	Auth0Subject *string   `gorm:"uniqueIndex" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

func (a *Account) BeforeCreate(_ *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
