package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/middleware"
	"github.com/dropx/dropx-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IssueOAuthToken handles POST /api/v1/oauth/token.
// The caller presents an Auth0 access token; the response carries the callback
// URL that turns a one-time token into a DROPX session.
func IssueOAuthToken(c *gin.Context) {
	subject, err := middleware.GetAuth0Subject(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract subject from token")
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Access token not found")
		return
	}

	cfg := config.GetConfig()
	if cfg == nil || cfg.Auth0Domain == "" {
		respondError(c, http.StatusServiceUnavailable, "OAUTH_DISABLED", "OAuth sign-in is not configured")
		return
	}

	ctx := c.Request.Context()
	userInfo, err := services.NewAuth0Service(cfg.Auth0Domain).GetUserInfo(ctx, accessToken)
	if err != nil {
		zap.L().Error("failed to fetch Auth0 userinfo", zap.Error(err))
		respondError(c, http.StatusBadGateway, "AUTH0_ERROR", "Failed to fetch user information from Auth0")
		return
	}
	if userInfo.Email == "" {
		respondError(c, http.StatusBadRequest, "MISSING_EMAIL", "Email not provided by Auth0")
		return
	}

	accountID, secret, err := accountService().IssueOAuthToken(ctx, services.OAuthIdentity{
		Subject:       subject,
		Email:         userInfo.Email,
		EmailVerified: userInfo.EmailVerified,
		Name:          userInfo.Name,
	})
	if errors.Is(err, services.ErrUserExists) {
		respondError(c, http.StatusConflict, "USER_EXISTS", "An account with this email already exists; sign in with your password")
		return
	}
	if err != nil {
		zap.L().Error("failed to issue oauth token", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create OAuth session")
		return
	}

	query := url.Values{}
	query.Set("userId", accountID)
	query.Set("secret", secret)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"redirect_url": cfg.AppURL + "/api/oauth?" + query.Encode(),
		},
	})
}

// OAuthCallback handles GET /api/oauth - exchanges the one-time token for a
// session and sends new users to their profile, returning users to the dashboard.
func OAuthCallback(c *gin.Context) {
	accountID := c.Query("userId")
	secret := c.Query("secret")
	if accountID == "" || secret == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing userId or secret")
		return
	}

	ctx := c.Request.Context()
	account, sessionSecret, err := accountService().ExchangeOAuthToken(ctx, accountID, secret)
	if errors.Is(err, services.ErrInvalidOAuthToken) {
		respondError(c, http.StatusUnauthorized, "INVALID_TOKEN", "OAuth token is invalid or expired")
		return
	}
	if err != nil {
		zap.L().Error("oauth exchange failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create session")
		return
	}

	_, created, err := services.NewUserService(config.GetDB()).ProvisionFromAccount(ctx, account)
	if err != nil {
		zap.L().Error("failed to provision user", zap.String("account_id", account.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user profile")
		return
	}

	setSessionCookie(c, sessionSecret)
	if created {
		c.Redirect(http.StatusTemporaryRedirect, "/profile")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
}
