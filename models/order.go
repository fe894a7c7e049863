package models

import (
	"time"

	"gorm.io/gorm"
)

// Order represents a delivery order in the system
type Order struct {
	ID          string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Address     string         `gorm:"not null" json:"address"`
	Target      string         `gorm:"not null" json:"target"` // recipient name
	Phone       string         `gorm:"not null" json:"phone"`
	Status      OrderStatus    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ScheduledAt time.Time      `gorm:"not null" json:"scheduled_at"`
	Price       string         `gorm:"not null" json:"price"` // canonical decimal text
	CourierID   *string        `gorm:"type:varchar(36);index" json:"courier_id"`
	Courier     *User          `gorm:"foreignKey:CourierID" json:"courier,omitempty"`
	AuthorID    string         `gorm:"<-:create;type:varchar(36);not null;index" json:"author_id"` // never written by updates
	Author      User           `gorm:"foreignKey:AuthorID" json:"author"`
	ImageS3Key  *string        `json:"image_s3_key"`
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"` // presigned, computed per response
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	assignID(&o.ID)
	if o.Status == "" {
		o.Status = StatusPending
	}
	return nil
}
