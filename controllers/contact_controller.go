package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactRequest represents the public contact form
type ContactRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1"`
	LastName  string `json:"last_name" binding:"required,min=1"`
	Mobile    string `json:"mobile" binding:"required,min=1"`
	Email     string `json:"email" binding:"required,min=2"`
	Message   string `json:"message" binding:"required,min=1"`
}

// SubmitContact handles POST /api/v1/contact - stores the message and mails it to the team
func SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	mailer := services.GetMailer()
	if mailer == nil {
		mailer = services.NewLogMailer(zap.L())
	}

	var from, recipient string
	if cfg := config.GetConfig(); cfg != nil {
		from, recipient = cfg.MailFrom, cfg.ContactRecipient
	}

	msg, err := services.NewContactService(config.GetDB(), mailer, from, recipient).Submit(c.Request.Context(), models.ContactMessage{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Mobile:    strings.TrimSpace(req.Mobile),
		Email:     strings.TrimSpace(req.Email),
		Message:   req.Message,
	})
	if errors.Is(err, services.ErrEmailDelivery) {
		respondError(c, http.StatusBadGateway, "EMAIL_FAILED", "Failed to send email")
		return
	}
	if err != nil {
		zap.L().Error("contact submission failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store message")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    msg,
	})
}
