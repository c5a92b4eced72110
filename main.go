// File: turnero/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"turnero/config"
	"turnero/cron"
	"turnero/database"
	bookingRepo "turnero/database/repository/booking"
	catalogRepo "turnero/database/repository/catalog"
	"turnero/handlers"
	"turnero/middleware"
	"turnero/routes"
	"turnero/services/conversation"
	"turnero/services/messaging"
	"turnero/services/payment"
	"turnero/services/scheduling"
	"turnero/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	loc, err := time.LoadLocation(config.AppConfig.Timezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid timezone %q: %v", config.AppConfig.Timezone, err)
	}

	openMin, err := utils.ParseClock(config.AppConfig.DefaultOpenTime)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid DEFAULT_OPEN_TIME: %v", err)
	}
	closeMin, err := utils.ParseClock(config.AppConfig.DefaultCloseTime)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid DEFAULT_CLOSE_TIME: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	catRepo := catalogRepo.NewMongoCatalogRepo()
	bkRepo := bookingRepo.NewMongoBookingRepo()

	// scheduling core.
	calendar := &scheduling.Calendar{
		Catalog:      catRepo,
		Bookings:     bkRepo,
		IntervalMin:  config.AppConfig.SlotIntervalMin,
		DefaultOpen:  openMin,
		DefaultClose: closeMin,
		Location:     loc,
		Logger:       logger,
	}
	allocator := &scheduling.Allocator{
		Catalog:  catRepo,
		Bookings: bkRepo,
	}

	// outbound collaborators.
	sender := messaging.NewWhatsAppSender(
		config.AppConfig.WhatsAppToken,
		config.AppConfig.WhatsAppPhoneID,
		logger,
	)

	var linker payment.Linker
	if config.AppConfig.StripeKey != "" {
		linker = payment.NewStripeLinker(
			config.AppConfig.StripeKey,
			config.AppConfig.PaymentSuccessURL,
			config.AppConfig.PaymentCancelURL,
			logger,
		)
	} else {
		logger.Sugar().Warn("main: STRIPE_KEY not set, payment-gated services will fail to confirm")
	}

	reminders := cron.NewScheduler(config.AppConfig.ReminderLeadMin, loc)

	// conversation engine.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMin) * time.Minute
	sessions := conversation.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)

	engine := &conversation.Engine{
		Sessions:    sessions,
		Catalog:     catRepo,
		Bookings:    bkRepo,
		Calendar:    calendar,
		Allocator:   allocator,
		Sender:      sender,
		Payments:    linker,
		Reminders:   reminders,
		BusinessID:  config.AppConfig.BusinessID,
		PreviewDays: config.AppConfig.DatePreviewDays,
		// Relative dates ("hoy", "mañana") and past-date rejection must
		// resolve in the business timezone, not the server's.
		Now:    func() time.Time { return time.Now().In(loc) },
		Logger: logger,
	}

	// handlers.
	webhookHandler := handlers.NewWebhookHandler(engine, config.AppConfig.WhatsAppVerifyToken, logger)
	paymentHandler := handlers.NewPaymentWebhookHandler(bkRepo, sender, config.AppConfig.StripeWebhookSecret, logger)

	routes.RegisterRoutes(router, webhookHandler, paymentHandler)

	// Background reminder worker and liveness probes.
	cron.InitReminderWorker(bkRepo, sender)
	utils.StartHealthMonitor(utils.GetSessionCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
