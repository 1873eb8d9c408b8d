package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/cors"

	"room-booking-backend/config"
	"room-booking-backend/internal/api"
	"room-booking-backend/internal/booking"
	"room-booking-backend/internal/db"
	"room-booking-backend/internal/notification"
	"room-booking-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "bookingd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Admin.Email == "" {
		logger.Fatalf("admin.email must be configured; it gates booking visibility")
	}

	// Web push is optional; without VAPID keys only the email sink runs.
	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys not configured; web push notifications disabled")
	}

	// Storage unreachability at boot is fatal.
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	if err := appStore.SeedRooms(ctx, cfg.Rooms); err != nil {
		logger.Fatalf("failed to seed room catalog: %v", err)
	}
	logger.Printf("room catalog seeded (%d rooms)", len(cfg.Rooms))

	var mailer notification.Mailer
	if m := notification.NewSMTPMailer(cfg.Mail); m != nil {
		mailer = m
	} else {
		logger.Println("mail not configured; admin email notifications disabled")
	}

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions, mailer, cfg.Admin.Email)
	pool.Start(ctx)

	policy := booking.NewService(appStore, pool,
		cfg.Booking.AuditoriumCapacity, cfg.Booking.DefaultTitle, cfg.Admin.Whatsapp)
	gate := booking.NewGate(appStore, cfg.Admin.Email)

	handler := api.NewHandler(appStore, policy, gate, webpushOptions)
	router := api.NewRouter(handler, &cfg.Server)

	corsOptions := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-User-Email"},
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		corsOptions.AllowedOrigins = cfg.Server.CORSOrigins
	} else {
		corsOptions.AllowedOrigins = []string{"*"}
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: cors.New(corsOptions).Handler(router),
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
