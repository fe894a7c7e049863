package services

import (
	"context"
	"fmt"

	"github.com/dropx/dropx-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContactService stores contact form submissions and forwards them by email
type ContactService struct {
	db        *gorm.DB
	mailer    Mailer
	from      string
	recipient string
}

// NewContactService creates a new contact service
func NewContactService(db *gorm.DB, mailer Mailer, from, recipient string) *ContactService {
	return &ContactService{db: db, mailer: mailer, from: from, recipient: recipient}
}

// Submit persists the message and sends it to the fixed recipient.
// A mail failure leaves the stored row undelivered and returns ErrEmailDelivery.
func (s *ContactService) Submit(ctx context.Context, msg models.ContactMessage) (*models.ContactMessage, error) {
	msg.Delivered = false
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}

	email, err := RenderContactEmail(msg, s.from, s.recipient)
	if err != nil {
		return &msg, err
	}

	if err := s.mailer.Send(ctx, email); err != nil {
		zap.L().Error("contact email failed", zap.String("message_id", msg.ID), zap.Error(err))
		return &msg, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	if err := s.db.WithContext(ctx).Model(&msg).Update("delivered", true).Error; err != nil {
		return &msg, fmt.Errorf("mark contact message delivered: %w", err)
	}
	msg.Delivered = true
	return &msg, nil
}
