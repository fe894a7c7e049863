package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/routes"
	"github.com/dropx/dropx-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testConfig is the configuration every integration router runs with
func testConfig() *config.Config {
	return &config.Config{
		GoEnv:             "test",
		AppURL:            "http://localhost:3000",
		SessionCookieName: testutil.SessionCookieName,
		SessionTTL:        time.Hour,
		MailFrom:          "no-reply@dropx.test",
		ContactRecipient:  "team@dropx.test",
	}
}

// newRouter installs cfg globally and builds the full application router
func newRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(t)

	config.SetConfig(cfg)
	t.Cleanup(func() { config.SetConfig(nil) })

	router, err := routes.Setup(cfg, zap.NewNop())
	require.NoError(t, err)
	return router
}

// do sends a JSON request, attaching the session cookie when secret is set
func do(router http.Handler, method, path, secret string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.AddCookie(testutil.SessionCookie(secret))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	data, ok := decode(t, w)["data"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return data
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	errBody, ok := decode(t, w)["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return errBody["code"].(string)
}

// sessionCookie returns the session cookie set by a response, if any
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testutil.SessionCookieName {
			return c
		}
	}
	return nil
}
