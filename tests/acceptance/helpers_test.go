package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/routes"
	"github.com/dropx/dropx-api/services"
	"github.com/dropx/dropx-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is a running DROPX server backed by an in-memory database
type app struct {
	server *httptest.Server
	db     *gorm.DB
	mailer *services.MockMailer
}

// startApp serves the full router over TLS so secure session cookies round-trip
func startApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(t)

	db := testutil.UseTestDB(t)

	cfg := &config.Config{
		GoEnv:             "test",
		AppURL:            "http://localhost:3000",
		SessionCookieName: testutil.SessionCookieName,
		SessionTTL:        time.Hour,
		MailFrom:          "no-reply@dropx.test",
		ContactRecipient:  "team@dropx.test",
	}
	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(nil) })

	mailer := services.NewMockMailer()
	previous := services.GetMailer()
	services.SetMailer(mailer)
	t.Cleanup(func() { services.SetMailer(previous) })

	router, err := routes.Setup(cfg, zap.NewNop())
	require.NoError(t, err)

	server := httptest.NewTLSServer(router)
	t.Cleanup(server.Close)
	return &app{server: server, db: db, mailer: mailer}
}

// browser returns a client with its own cookie jar that does not follow redirects
func (a *app) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	// server.Client() is shared, so only its TLS transport is reused
	return &http.Client{
		Transport: a.server.Client().Transport,
		Jar:       jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// call sends a JSON request and returns the response with its body read
func (a *app) call(t *testing.T, client *http.Client, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(t, client, req)
}

func (a *app) send(t *testing.T, client *http.Client, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

// signUp registers through the API and leaves the session cookie in the client's jar
func (a *app) signUp(t *testing.T, client *http.Client, email, role string) map[string]interface{} {
	t.Helper()
	resp, raw := a.call(t, client, http.MethodPost, "/api/v1/auth/sign-up", map[string]interface{}{
		"first_name": "Test",
		"last_name":  role,
		"mobile":     "+15550000000",
		"email":      email,
		"password":   testutil.TestPassword,
		"role":       role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	return jsonData(t, raw)
}

func jsonBody(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func jsonData(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	data, ok := jsonBody(t, raw)["data"].(map[string]interface{})
	require.True(t, ok, string(raw))
	return data
}

func jsonErrorCode(t *testing.T, raw []byte) string {
	t.Helper()
	errBody, ok := jsonBody(t, raw)["error"].(map[string]interface{})
	require.True(t, ok, string(raw))
	return errBody["code"].(string)
}
