package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactMessage is a submission of the public contact form
type ContactMessage struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Mobile    string    `gorm:"not null" json:"mobile"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Delivered bool      `gorm:"not null;default:false" json:"delivered"` // set once the mail provider accepted it
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the ContactMessage model
func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (m *ContactMessage) BeforeCreate(_ *gorm.DB) error {
	assignID(&m.ID)
	return nil
}
