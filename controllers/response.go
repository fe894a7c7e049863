package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/middleware"
	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultSessionCookieName = "dropx-session"
	defaultSessionTTL        = 720 * time.Hour
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondErrorDetails(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data", err.Error())
}

// respondServiceError maps service errors to the JSON error envelope.
// Anything unrecognised is logged and reported as a database failure with the given message.
func respondServiceError(c *gin.Context, err error, message string) {
	var readOnly *services.ReadOnlyFieldError
	switch {
	case errors.As(err, &readOnly):
		respondErrorDetails(c, http.StatusForbidden, "READ_ONLY_FIELD", "Couriers may only change the order status", readOnly.Fields)
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, services.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User profile not found")
	case errors.Is(err, services.ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action")
	case errors.Is(err, services.ErrInvalidCourier):
		respondError(c, http.StatusBadRequest, "INVALID_COURIER", "courier_id must reference a courier")
	case errors.Is(err, services.ErrStatusNotAllowed), errors.Is(err, models.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", "Status is not allowed")
	case errors.Is(err, services.ErrConfirmationRequired):
		respondError(c, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", "Deleting an order must be confirmed")
	default:
		zap.L().Error(message, zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", message)
	}
}

// requireActor returns the acting user or writes a 401 response
func requireActor(c *gin.Context) (services.Actor, bool) {
	actor, err := middleware.GetActor(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in to continue")
		return services.Actor{}, false
	}
	return actor, true
}

func sessionSettings() (string, time.Duration) {
	cfg := config.GetConfig()
	if cfg == nil {
		return defaultSessionCookieName, defaultSessionTTL
	}
	return cfg.SessionCookieName, cfg.SessionTTL
}

func accountService() *services.AccountService {
	_, ttl := sessionSettings()
	return services.NewAccountService(config.GetDB(), ttl)
}

// setSessionCookie writes the session secret as an HttpOnly, Secure, SameSite=Strict cookie
func setSessionCookie(c *gin.Context, secret string) {
	name, ttl := sessionSettings()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, secret, int(ttl.Seconds()), "/", "", true, true)
}

func clearSessionCookie(c *gin.Context) {
	name, _ := sessionSettings()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", true, true)
}
