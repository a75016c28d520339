package app

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"taxiweb/internal/config"
	"taxiweb/internal/handler"
	"taxiweb/internal/middleware"
	"taxiweb/internal/redis"
	"taxiweb/internal/service"
	"taxiweb/internal/session"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler        *handler.AuthHandler
	QuoteHandler       *handler.QuoteHandler
	BookingsHandler    *handler.BookingsHandler
	BookingFormHandler *handler.BookingFormHandler
	PaymentHandler     *handler.PaymentHandler
	AuthService        *service.AuthService
	Sessions           *session.Registry
	ResponseCache      redis.ResponseCache
	SessionConfig      config.SessionConfig
	CORSConfig         config.CORSConfig
	NewRelicApp        *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSConfig.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Idempotency-Key", middleware.ClientPathHeader},
		ExposeHeaders:    []string{"Retry-After", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(middleware.Session(deps.Sessions, deps.SessionConfig))
	api.Use(middleware.SessionAttributes())
	{
		api.GET("/session", deps.AuthHandler.Session)
		api.POST("/quote", deps.QuoteHandler.Quote)
		api.GET("/config/places", deps.QuoteHandler.PlacesConfig)

		// Auth routes.
		auth := api.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/logout", deps.AuthHandler.Logout)
		}

		// Signed-in routes.
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(deps.AuthService, deps.SessionConfig.BootstrapTimeout))
		{
			protected.GET("/dashboard", deps.BookingsHandler.Dashboard)

			bookings := protected.Group("/bookings")
			{
				bookings.POST("/reload", deps.BookingsHandler.Reload)
				bookings.GET("/:id", deps.BookingsHandler.GetBooking)
				bookings.POST("/:id/cancel", deps.BookingsHandler.CancelBooking)
				bookings.GET("/:id/receipt", deps.BookingsHandler.Receipt)
			}

			booking := protected.Group("/booking")
			{
				booking.POST("", deps.BookingFormHandler.Submit)
				booking.GET("/draft", deps.BookingFormHandler.GetDraft)
				booking.DELETE("/draft", deps.BookingFormHandler.ClearDraft)
				booking.GET("/payment", deps.PaymentHandler.Page)
				booking.POST("/payment/confirm",
					middleware.IdempotencyMiddleware(deps.ResponseCache),
					deps.PaymentHandler.Confirm,
				)
			}
		}
	}

	return router
}
