package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"taxiweb/internal/api"
	"taxiweb/internal/app"
	"taxiweb/internal/config"
	"taxiweb/internal/handler"
	"taxiweb/internal/queue"
	internalRedis "taxiweb/internal/redis"
	"taxiweb/internal/repository"
	"taxiweb/internal/repository/postgres"
	"taxiweb/internal/service"
	"taxiweb/internal/session"
)

const sessionSweepInterval = 5 * time.Minute

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// The reconciliation ledger is optional.
	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		log.Println("Connected to PostgreSQL")
	}

	publisher := app.NewPublisher(cfg.RabbitMQ)
	defer publisher.Close()

	sessions := session.NewRegistry(cfg.Session.IdleTTL)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go sessions.Run(janitorCtx, sessionSweepInterval)

	// Wire dependencies.
	server := wireServer(db, redisClient, publisher, sessions, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	publisher queue.Publisher,
	sessions *session.Registry,
	nrApp *newrelic.Application,
	cfg *config.Config,
) *http.Server {
	// Initialize Redis stores.
	tokenStore := internalRedis.NewTokenStore(redisClient, cfg.Session.TokenTTL)
	lockStore := internalRedis.NewLockStore(redisClient, cfg.Payment.ConfirmLockTTL)
	replayStore := internalRedis.NewReplayStore(redisClient)

	// Initialize repositories.
	var reconciliationRepo repository.ReconciliationRepository
	if db != nil {
		reconciliationRepo = postgres.NewReconciliationRepository(db)
	}

	// Initialize the backend client.
	var transport http.RoundTripper
	if nrApp != nil {
		transport = newrelic.NewRoundTripper(http.DefaultTransport)
	}
	client := api.NewClient(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Transport: transport,
	})
	authAPI := api.NewAuthAPI(client)
	pricingAPI := api.NewPricingAPI(client)
	bookingAPI := api.NewBookingAPI(client)
	paymentAPI := api.NewPaymentAPI(client, cfg.Payment.Currency)

	// Initialize services.
	notificationService := service.NewNotificationService(publisher)
	authService := service.NewAuthService(authAPI, tokenStore)
	bookingsService := service.NewBookingsService(bookingAPI, tokenStore)
	authService.Subscribe(bookingsService)
	formService := service.NewBookingFormService(pricingAPI, bookingsService, tokenStore, cfg.Payment.Currency, cfg.Booking.Location())
	quoteService := service.NewQuoteService(pricingAPI)
	paymentService := service.NewPaymentService(paymentAPI, bookingsService, tokenStore, lockStore, reconciliationRepo, notificationService, cfg.Payment)
	receiptService := service.NewReceiptService(bookingsService, cfg.Payment.MerchantName)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		AuthHandler:        handler.NewAuthHandler(authService),
		QuoteHandler:       handler.NewQuoteHandler(quoteService, cfg.Places),
		BookingsHandler:    handler.NewBookingsHandler(bookingsService, receiptService),
		BookingFormHandler: handler.NewBookingFormHandler(formService, bookingsService),
		PaymentHandler:     handler.NewPaymentHandler(paymentService),
		AuthService:        authService,
		Sessions:           sessions,
		ResponseCache:      replayStore,
		SessionConfig:      cfg.Session,
		CORSConfig:         cfg.CORS,
		NewRelicApp:        nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
