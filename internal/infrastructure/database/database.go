package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shoplite/messaging-api/internal/config"
)

var schemaRegistry []interface{}

// RegisterSchemaForAutoMigrate adds models to the auto-migration set.
// Called from dbschema package init functions.
func RegisterSchemaForAutoMigrate(models ...interface{}) {
	schemaRegistry = append(schemaRegistry, models...)
}

// Connect opens the database connection and configures the pool.
func Connect(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error().Err(err).Msg("unable to connect to database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.DatabaseMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.DatabaseMaxOpen)
	sqlDB.SetConnMaxLifetime(cfg.DatabaseMaxLifetime)

	log.Info().Msg("connected to database")
	return db, nil
}

// Migrate runs auto-migration for every registered schema.
func Migrate(db *gorm.DB) error {
	for _, model := range schemaRegistry {
		if err := db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// Ping verifies the database connection, used by the readiness probe.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
