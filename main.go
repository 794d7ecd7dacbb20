// File: telecare/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telecare/config"
	"telecare/cron"
	"telecare/database"
	"telecare/database/repository"
	"telecare/handlers"
	"telecare/routes"
	"telecare/services/availability"
	"telecare/services/booking"
	"telecare/services/notification"
	"telecare/services/schedule"
	"telecare/services/tasks"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	loc := cfg.Location()

	database.InitDB()
	utils.InitAuthCache()

	issuer, err := utils.NewTokenIssuer(cfg.JWTSecret)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// repositories.
	scheduleRepo := repository.NewMongoScheduleRepo()
	appointmentRepo := repository.NewMongoAppointmentRepo()

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureIndexes(idxCtx, scheduleRepo, appointmentRepo); err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	idxCancel()

	// reminder queue.
	queueOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisReminderQueueDB,
	}
	queueClient := asynq.NewClient(queueOpts)
	defer queueClient.Close()

	notificationService := notification.NewLogNotificationService(logger)
	reminderWorker, err := cron.InitReminderWorker(queueOpts, appointmentRepo, notificationService, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// services.
	availabilityService, err := availability.NewDefaultAvailabilityService(
		scheduleRepo, appointmentRepo, cfg.SlotDurationMinutes, cfg.MaxWindowDays, loc, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	scheduleService, err := schedule.NewDefaultScheduleService(scheduleRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	bookingService, err := booking.NewDefaultBookingService(
		appointmentRepo,
		availabilityService,
		&tasks.AsynqReminderScheduler{Client: queueClient},
		cfg.SlotDurationMinutes,
		time.Duration(cfg.ReminderLeadMinutes)*time.Minute,
		loc,
		logger,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// health.
	authCache := utils.GetAuthCacheClient()
	monitor := utils.NewHealthMonitor(database.MongoClient, authCache)
	healthCron, err := monitor.Start(cfg.HealthCheckSpec, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid HEALTH_CHECK_SPEC: %v", err)
	}

	denylist := &utils.RedisTokenDenylist{Client: authCache}

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Issuer:            issuer,
		Denylist:          denylist,
		Health:            monitor,
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
		Logger:            logger,
		Availability:      handlers.NewAvailabilityHandler(availabilityService, cfg.BookingWindowDays, loc, logger),
		Schedule:          handlers.NewScheduleHandler(scheduleService, logger),
		Appointments:      handlers.NewAppointmentHandler(bookingService, logger),
		Auth:              handlers.NewAuthHandler(denylist, logger),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
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
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	reminderWorker.Shutdown()
	<-healthCron.Stop().Done()
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
