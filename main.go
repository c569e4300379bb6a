package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundis/config"
	"fundis/cron"
	"fundis/database"
	bookingRepoPkg "fundis/database/repository/booking"
	paymentRepoPkg "fundis/database/repository/payment"
	providerRepoPkg "fundis/database/repository/provider"
	reviewRepoPkg "fundis/database/repository/review"
	userRepoPkg "fundis/database/repository/user"
	"fundis/handlers"
	"fundis/middleware"
	"fundis/routes"
	"fundis/services/booking"
	"fundis/services/chat"
	"fundis/services/mpesa"
	"fundis/services/tasks"
	"fundis/services/whatsapp"
	"fundis/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitChatCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	bookRepo := bookingRepoPkg.NewMongoBookingRepo()
	payRepo := paymentRepoPkg.NewMongoPaymentRepo()
	revRepo := reviewRepoPkg.NewMongoReviewRepo()

	// outbound clients.
	transport := whatsapp.NewClient(
		config.AppConfig.WhatsAppBaseURL,
		config.AppConfig.WhatsAppToken,
		config.AppConfig.WhatsAppPhoneID,
		logger,
	)
	gateway := mpesa.NewClient(
		config.AppConfig.MpesaBaseURL,
		config.AppConfig.MpesaConsumerKey,
		config.AppConfig.MpesaConsumerSecret,
		config.AppConfig.MpesaShortcode,
		config.AppConfig.MpesaPasskey,
		config.AppConfig.MpesaCallbackURL,
		logger,
	)

	// async reminder queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()
	scheduler := &tasks.AsynqScheduler{Client: asynqClient}

	// services.
	matchingService := &booking.DefaultMatchingService{
		ProviderRepo: provRepo,
	}
	lifecycleService := &booking.DefaultLifecycleService{
		Bookings:      bookRepo,
		Payments:      payRepo,
		Providers:     provRepo,
		Users:         userRepo,
		Reviews:       revRepo,
		Gateway:       gateway,
		Transport:     transport,
		Reminders:     scheduler,
		ReminderDelay: time.Duration(config.AppConfig.ReminderDelayHr) * time.Hour,
		Logger:        logger,
	}

	ctxStore := chat.NewRedisContextStore(
		utils.GetChatCacheClient(),
		time.Duration(config.AppConfig.ChatContextTTL)*time.Second,
	)
	engine := chat.NewEngine(ctxStore, userRepo, provRepo, bookRepo, matchingService, lifecycleService, transport, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Webhook: &handlers.WebhookHandler{Engine: engine},
		Payments: &handlers.PaymentHandler{
			Lifecycle: lifecycleService,
			Payments:  payRepo,
			Bookings:  bookRepo,
		},
		Bookings: &handlers.BookingHandler{
			Bookings:  bookRepo,
			Providers: provRepo,
			Lifecycle: lifecycleService,
		},
		Admin: &handlers.AdminHandler{
			Users:     userRepo,
			Providers: provRepo,
			Bookings:  bookRepo,
			Payments:  payRepo,
		},
		Auth: &handlers.AuthHandler{Users: userRepo},
	}

	routes.RegisterRoutes(router, handlerBundle, middleware.AuthMiddleware(userRepo))

	// Background reminder worker.
	cron.InitReminderWorker(bookRepo, transport)

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
