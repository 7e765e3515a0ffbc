// @title           Messaging API
// @version         1.0
// @description     Realtime messaging and notification delivery service.
// @description     Routes direct messages between customers and admins and
// @description     fans out role-targeted notifications.

// @contact.name   Shoplite Platform Team
// @contact.url    https://github.com/shoplite/messaging-api

// @host      localhost:8190
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shoplite/messaging-api/internal/config"
	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/domain/notification"
	"github.com/shoplite/messaging-api/internal/domain/presence"
	"github.com/shoplite/messaging-api/internal/infrastructure/auth"
	"github.com/shoplite/messaging-api/internal/infrastructure/database"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/repository/messagerepo"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/repository/notificationrepo"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/repository/userrepo"
	"github.com/shoplite/messaging-api/internal/infrastructure/logger"
	"github.com/shoplite/messaging-api/internal/infrastructure/observability"
	"github.com/shoplite/messaging-api/internal/interfaces/httpserver"
	"github.com/shoplite/messaging-api/internal/interfaces/wsserver"
)

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the application.
func (a *Application) Start(ctx context.Context) error {
	// Run HTTP server (blocks until context cancelled)
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup observability
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	// Connect the database and run migrations
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Repositories
	messageRepo := messagerepo.NewMessageGormRepository(db)
	notificationRepo := notificationrepo.NewNotificationGormRepository(db)
	directory := userrepo.NewUserGormDirectory(db)

	// Token verification and handshake gatekeeper
	verifier, err := auth.NewVerifier(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token verifier")
	}
	gatekeeper := auth.NewGatekeeper(verifier, directory, log)

	// Presence registry (single-process, mutex-based)
	registry := presence.NewRegistry(log)

	// Domain services
	messageService := message.NewService(messageRepo, registry, directory, cfg.MessagePageLimit, log)
	notificationService := notification.NewService(notificationRepo, registry, directory, cfg.NotificationPageLimit, cfg.BroadcastConcurrency, log)

	// Websocket gateway
	gateway := wsserver.NewGateway(cfg, gatekeeper, registry, messageService, notificationService, log)

	// HTTP server
	httpServer := httpserver.New(cfg, log, db, gatekeeper, gateway, messageService, notificationService)

	// Create and start application
	app := NewApplication(httpServer, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
