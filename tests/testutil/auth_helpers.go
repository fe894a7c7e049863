package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/services"
	"gorm.io/gorm"
)

// SessionCookieName is the cookie name used by test routers
const SessionCookieName = "dropx-session"

// TestPassword is the password of every user created by SignUpUser
const TestPassword = "correct horse battery"

// SignUpUser registers a user with the given role and returns the profile and
// a live session secret.
func SignUpUser(t *testing.T, db *gorm.DB, email string, role models.Role) (*models.User, string) {
	t.Helper()

	user, secret, err := services.NewAccountService(db, time.Hour).SignUp(context.Background(), services.SignUpInput{
		FirstName: "Test",
		LastName:  string(role),
		Mobile:    "+15550000000",
		Email:     email,
		Password:  TestPassword,
		Role:      role,
	})
	if err != nil {
		t.Fatalf("Failed to sign up %s: %v", email, err)
	}
	return user, secret
}

// SessionCookie builds the cookie a browser would send for a session secret
func SessionCookie(secret string) *http.Cookie {
	return &http.Cookie{Name: SessionCookieName, Value: secret}
}

// Actor converts a profile into the acting user seen by the services
func Actor(user *models.User) services.Actor {
	return services.Actor{UserID: user.ID, Role: user.Role}
}
