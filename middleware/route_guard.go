package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	protectedPrefixes = []string{"/dashboard"}
	publicPrefixes    = []string{"/sign-in", "/sign-up"}
)

// RouteGuard redirects page requests based on the presence of the session cookie:
// protected pages without a cookie go to /sign-in, sign-in and sign-up pages with
// a cookie go to /dashboard. The cookie is not validated here.
func RouteGuard(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		_, err := c.Cookie(cookieName)
		hasSession := err == nil

		switch {
		case !hasSession && hasPrefix(path, protectedPrefixes):
			c.Redirect(http.StatusTemporaryRedirect, "/sign-in")
			c.Abort()
			return
		case hasSession && hasPrefix(path, publicPrefixes):
			c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
