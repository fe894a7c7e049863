package routes

import (
	"net/http"
	"time"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/controllers"
	"github.com/dropx/dropx-api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Setup builds the HTTP router: page shells behind the route guard, the
// OAuth callback, and the JSON API under /api/v1.
func Setup(cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     []string{cfg.AppURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Confirm-Delete"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RouteGuard(cfg.SessionCookieName),
	)

	router.GET("/metrics", middleware.MetricsHandler())

	router.GET("/", controllers.Page("home", "Home"))
	router.GET("/contact", controllers.Page("contact", "Contact"))
	router.GET("/sign-in", controllers.Page("sign-in", "Sign in"))
	router.GET("/sign-up", controllers.Page("sign-up", "Sign up"))
	router.GET("/profile", controllers.Page("profile", "Profile"))
	router.GET("/dashboard", controllers.Page("dashboard", "Dashboard"))
	router.GET("/dashboard/new", controllers.Page("new-order", "New order"))
	router.GET("/dashboard/orders/:id", controllers.Page("order", "Order"))

	router.GET("/api/oauth", controllers.OAuthCallback)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", controllers.HealthCheck)
		v1.GET("/database/status", controllers.DatabaseStatus)

		auth := v1.Group("/auth")
		{
			auth.POST("/sign-up", controllers.SignUp)
			auth.POST("/sign-in", controllers.SignIn)
			auth.POST("/sign-out", controllers.SignOut)
		}

		if cfg.Auth0Domain != "" {
			ensureValidToken, err := middleware.EnsureValidToken(cfg)
			if err != nil {
				return nil, err
			}
			v1.POST("/oauth/token", ensureValidToken, middleware.RequireScope("openid"), controllers.IssueOAuthToken)
		} else {
			logger.Warn("AUTH0_DOMAIN not set, OAuth sign-in disabled")
		}

		v1.POST("/contact", controllers.SubmitContact)

		protected := v1.Group("")
		protected.Use(middleware.RequireSession(cfg.SessionCookieName))
		{
			protected.GET("/users/me", controllers.GetMyProfile)
			protected.PUT("/users/me", controllers.UpdateMyProfile)
			protected.GET("/couriers", controllers.ListCouriers)

			protected.POST("/orders", controllers.CreateOrder)
			protected.GET("/orders", controllers.ListOrders)
			protected.GET("/orders/:id", controllers.GetOrder)
			protected.PUT("/orders/:id", controllers.UpdateOrder)
			protected.DELETE("/orders/:id", controllers.DeleteOrder)
			protected.POST("/orders/:id/image", controllers.UploadOrderImage)
		}
	}

	return router, nil
}
