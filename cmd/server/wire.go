//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shoplite/messaging-api/internal/config"
	"github.com/shoplite/messaging-api/internal/domain/identity"
	"github.com/shoplite/messaging-api/internal/domain/message"
	"github.com/shoplite/messaging-api/internal/domain/notification"
	"github.com/shoplite/messaging-api/internal/domain/presence"
	"github.com/shoplite/messaging-api/internal/infrastructure/auth"
	"github.com/shoplite/messaging-api/internal/infrastructure/database"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/repository/messagerepo"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/repository/notificationrepo"
	"github.com/shoplite/messaging-api/internal/infrastructure/database/repository/userrepo"
	"github.com/shoplite/messaging-api/internal/interfaces/httpserver"
	"github.com/shoplite/messaging-api/internal/interfaces/wsserver"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideDatabase,
	messagerepo.NewMessageGormRepository,
	notificationrepo.NewNotificationGormRepository,
	userrepo.NewUserGormDirectory,
	ProvideVerifier,
	auth.NewGatekeeper,
	presence.NewRegistry,

	// Domain providers
	ProvideMessageService,
	ProvideNotificationService,

	// Interface providers
	wsserver.NewGateway,
	httpserver.New,

	// Application
	NewApplication,
)

// ProvideDatabase provides a connected, migrated database handle.
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// ProvideVerifier provides a token verifier.
func ProvideVerifier(ctx context.Context, cfg *config.Config, log zerolog.Logger) (identity.TokenVerifier, error) {
	return auth.NewVerifier(ctx, cfg, log)
}

// ProvideMessageService provides the message router and query service.
func ProvideMessageService(
	repo message.Repository,
	registry *presence.Registry,
	directory identity.Directory,
	cfg *config.Config,
	log zerolog.Logger,
) message.Service {
	return message.NewService(repo, registry, directory, cfg.MessagePageLimit, log)
}

// ProvideNotificationService provides the notification broadcaster and query
// service.
func ProvideNotificationService(
	repo notification.Repository,
	registry *presence.Registry,
	directory identity.Directory,
	cfg *config.Config,
	log zerolog.Logger,
) notification.Service {
	return notification.NewService(repo, registry, directory, cfg.NotificationPageLimit, cfg.BroadcastConcurrency, log)
}

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (*Application, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
