package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-payments-backend/internal/config"
	"rental-payments-backend/internal/events"
	handler "rental-payments-backend/internal/handlers"
	"rental-payments-backend/internal/jobs"
	"rental-payments-backend/internal/middleware"
	"rental-payments-backend/internal/notify"
	"rental-payments-backend/internal/repository"
	"rental-payments-backend/internal/routes"
	"rental-payments-backend/internal/services/payments"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.LogLevel)

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Fatalf("Failed to start kafka producer: %v", err)
		}
		publisher = kafka
	}
	defer publisher.Close()

	opts := []payments.Option{
		payments.WithLocation(cfg.Location),
		payments.WithPublisher(publisher),
		payments.WithLogger(logger),
	}
	if cfg.LateNoticesEnabled {
		opts = append(opts, payments.WithLateNotifier(notify.NewSender(cfg, logger)))
	}

	svc := payments.NewService(
		repository.NewScheduleRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewOwnershipRepository(db),
		opts...,
	)

	scheduler, err := jobs.NewScheduler(cfg.LateSweepCron, cfg.Location, svc, cfg.LateNoticesEnabled, logger)
	if err != nil {
		logger.Fatalf("Failed to schedule late sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, handler.NewHandler(svc, logger), cfg.JWTSecret)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown: %v", err)
	}
}
