package middleware

import (
	"errors"
	"net/http"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	actorKey         = "actor"
	currentUserKey   = "current_user"
	sessionSecretKey = "session_secret"
)

// RequireSession resolves the session cookie to an account and its profile.
// The acting user is stored in the Gin context for the handlers.
func RequireSession(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret, err := c.Cookie(cookieName)
		if err != nil || secret == "" {
			abortUnauthorized(c)
			return
		}

		db := config.GetDB()
		account, err := services.NewAccountService(db, 0).ResolveSession(c.Request.Context(), secret)
		if errors.Is(err, services.ErrSessionNotFound) {
			abortUnauthorized(c)
			return
		}
		if err != nil {
			zap.L().Error("failed to resolve session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load session",
				},
			})
			return
		}

		user, err := services.NewUserService(db).GetByAccount(c.Request.Context(), account.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_NOT_FOUND",
					"message": "User profile not found",
				},
			})
			return
		}

		c.Set(sessionSecretKey, secret)
		c.Set(currentUserKey, user)
		c.Set(actorKey, services.Actor{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Sign in to continue",
		},
	})
}

// GetActor returns the acting user set by RequireSession
func GetActor(c *gin.Context) (services.Actor, error) {
	value, exists := c.Get(actorKey)
	if !exists {
		return services.Actor{}, &AuthError{Code: "MISSING_ACTOR", Message: "No authenticated user in context"}
	}
	actor, ok := value.(services.Actor)
	if !ok {
		return services.Actor{}, &AuthError{Code: "INVALID_ACTOR", Message: "Authenticated user has the wrong type"}
	}
	return actor, nil
}

// GetCurrentUser returns the profile loaded by RequireSession
func GetCurrentUser(c *gin.Context) (*models.User, error) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "No authenticated user in context"}
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil, &AuthError{Code: "INVALID_USER", Message: "Authenticated user has the wrong type"}
	}
	return user, nil
}

// SetActor stores an actor and profile in the context (primarily for testing)
func SetActor(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
	c.Set(actorKey, services.Actor{UserID: user.ID, Role: user.Role})
}
