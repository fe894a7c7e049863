package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/middleware"
	"github.com/dropx/dropx-api/models"
	"github.com/dropx/dropx-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// setupTestDB installs a fresh database and configuration for one test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.UseTestDB(t)
	config.SetConfig(&config.Config{
		GoEnv:             "test",
		AppURL:            "http://localhost:3000",
		SessionCookieName: testutil.SessionCookieName,
		SessionTTL:        time.Hour,
		MailFrom:          "no-reply@dropx.test",
		ContactRecipient:  "team@dropx.test",
	})
	t.Cleanup(func() { config.SetConfig(nil) })
	return db
}

// mockSessionMiddleware stands in for RequireSession with a fixed user
func mockSessionMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetActor(c, user)
		c.Next()
	}
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		AccountID: "acct-" + email,
		FirstName: "Test",
		LastName:  string(role),
		Email:     email,
		Role:      role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createOrder(t *testing.T, db *gorm.DB, author, courier *models.User, address string) *models.Order {
	t.Helper()
	courierID := courier.ID
	order := &models.Order{
		Address:     address,
		Target:      "J. Doe",
		Phone:       "555-0100",
		Status:      models.StatusPending,
		ScheduledAt: time.Date(2030, 5, 1, 14, 30, 0, 0, time.UTC),
		Price:       "25",
		CourierID:   &courierID,
		AuthorID:    author.ID,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(order).Error)
	return order
}

func performJSON(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	response := decode(t, w)
	errObj, ok := response["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	return errObj["code"].(string)
}

func performJSONWithHeader(router http.Handler, method, path, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(header, value)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
