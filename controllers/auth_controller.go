package controllers

import (
	"errors"
	"net/http"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignUpRequest represents the registration form
type SignUpRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1"`
	LastName  string `json:"last_name" binding:"required,min=1"`
	Mobile    string `json:"mobile" binding:"required,min=1"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Role      string `json:"role" binding:"omitempty,oneof=customer courier"`
}

// SignInRequest represents the sign-in form
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUp handles POST /api/v1/auth/sign-up - creates an account, its profile and a session
func SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	user, secret, err := accountService().SignUp(c.Request.Context(), services.SignUpInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Mobile:    req.Mobile,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	})
	if errors.Is(err, services.ErrUserExists) {
		respondError(c, http.StatusConflict, "USER_EXISTS", "A user with this email already exists")
		return
	}
	if errors.Is(err, services.ErrPasswordTooLong) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Password must be at most 72 bytes")
		return
	}
	if err != nil {
		zap.L().Error("sign up failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user")
		return
	}

	setSessionCookie(c, secret)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// SignIn handles POST /api/v1/auth/sign-in - opens a session for valid credentials
func SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	account, secret, err := accountService().SignIn(ctx, req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Failed to sign in user")
		return
	}
	if err != nil {
		zap.L().Error("sign in failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to sign in user")
		return
	}

	user, _, err := services.NewUserService(config.GetDB()).ProvisionFromAccount(ctx, account)
	if err != nil {
		zap.L().Error("failed to load profile after sign in", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to sign in user")
		return
	}

	setSessionCookie(c, secret)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// SignOut handles POST /api/v1/auth/sign-out - deletes the current session and its cookie
func SignOut(c *gin.Context) {
	name, _ := sessionSettings()
	if secret, err := c.Cookie(name); err == nil {
		if err := accountService().SignOut(c.Request.Context(), secret); err != nil {
			zap.L().Error("sign out failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to sign out")
			return
		}
	}

	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out",
	})
}
