package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"temple-portal/internal/auth"
	"temple-portal/internal/config"
	"temple-portal/internal/events"
	events_api "temple-portal/internal/events/api"
	events_db "temple-portal/internal/events/db"
	"temple-portal/internal/identity"
	"temple-portal/internal/kafka"
	"temple-portal/internal/logger"
	"temple-portal/internal/payments"
	payments_api "temple-portal/internal/payments/api"
	payments_db "temple-portal/internal/payments/db"
	"temple-portal/internal/policy"
	"temple-portal/internal/profile"
	profile_api "temple-portal/internal/profile/api"
	profile_db "temple-portal/internal/profile/db"
	"temple-portal/internal/registration"
	registration_api "temple-portal/internal/registration/api"
	registration_db "temple-portal/internal/registration/db"
	"temple-portal/internal/registration/qr"
	"temple-portal/internal/storage"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	logger.Info("DATABASE", "PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Portal Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()

	client := &http.Client{
		Timeout: time.Second * 10,
	}
	ctx := context.Background()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.RequiredTopics()); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}
	} else {
		logger.Warn("KAFKA", "Kafka disabled, domain events will not be published")
	}

	tokenCache := auth.NewRedisTokenCache(redisClient)
	identityClient := identity.NewClient(cfg.Auth, client, tokenCache, logger)
	blobStore := storage.NewHTTPBlobStore(cfg.Storage, client)

	eventService := events.NewService(
		&events_db.DB{Bun: bunDB},
		blobStore,
		policy.NewRolePolicy(),
		publisher(producer),
		logger,
	)
	registrationDB := &registration_db.DB{Bun: bunDB}
	registrationService := registration.NewService(registrationDB, eventService, publisher(producer), logger)
	paymentService := payments.NewService(
		&payments_db.DB{Bun: bunDB},
		registrationDB,
		eventService,
		publisher(producer),
		cfg.Pricing.BasePrice,
		logger,
	)
	profileService := profile.NewService(&profile_db.DB{Bun: bunDB}, identityClient, logger)

	eventHandler := events_api.NewHandler(eventService, logger)
	registrationHandler := registration_api.NewHandler(registrationService, qr.NewGenerator(cfg.Auth.QRSecret), logger)
	paymentHandler := payments_api.NewHandler(paymentService, logger)
	profileHandler := profile_api.NewHandler(profileService, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Get("/api/events", eventHandler.ListEvents)
	r.Get("/api/events/{eventId}", eventHandler.GetEvent)
	logger.Info("ROUTER", "Public event directory registered at /api/events")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.Issuer))
		logger.Info("AUTH", "OIDC middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Post("/events", eventHandler.CreateEvent)
			r.Put("/events/{eventId}", eventHandler.UpdateEvent)
			logger.Info("ROUTER", "Event authoring routes registered under /api/events")

			r.Route("/events/{eventId}/registration", func(r chi.Router) {
				r.Get("/", registrationHandler.GetRegistration)
				r.Post("/", registrationHandler.SubmitRegistration)
				r.Get("/qr", registrationHandler.GetCheckInQR)
			})
			logger.Info("ROUTER", "Registration routes registered under /api/events/{eventId}/registration")

			r.Route("/events/{eventId}/payment", func(r chi.Router) {
				r.Get("/", paymentHandler.GetPayment)
				r.Post("/", paymentHandler.SubmitPayment)
			})
			logger.Info("ROUTER", "Payment routes registered under /api/events/{eventId}/payment")

			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)
			r.Get("/gotrams", profileHandler.ListGotrams)
			logger.Info("ROUTER", "Profile routes registered under /api/profile")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("Portal Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "Portal Service shutdown complete")
	}
}

// publisher hides the nil producer when Kafka is disabled; services treat a
// nil publisher as "do not publish".
func publisher(p *kafka.Producer) events.Publisher {
	if p == nil {
		return nil
	}
	return p
}
