package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the profile document of a signed-up person (customer or courier)
type User struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AccountID string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"account_id"`
	FirstName string         `gorm:"not null" json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `gorm:"index;not null" json:"email"`
	Mobile    string         `json:"mobile"`
	Role      Role           `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	assignID(&u.ID)
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

// FullName joins first and last name for display
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
