package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the messaging-api service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"messaging-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"MESSAGING_API_PORT" envDefault:"8190"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	EnableSwagger   bool          `env:"SWAGGER_ENABLED" envDefault:"false"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Auth
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"true"`
	AuthIssuer   string `env:"ISSUER"`
	AuthAudience string `env:"AUDIENCE"`
	AuthJWKSURL  string `env:"JWKS_URL"`

	// Database
	DatabaseURL         string        `env:"DATABASE_URL"`
	DatabaseMaxIdle     int           `env:"DATABASE_MAX_IDLE" envDefault:"10"`
	DatabaseMaxOpen     int           `env:"DATABASE_MAX_OPEN" envDefault:"25"`
	DatabaseMaxLifetime time.Duration `env:"DATABASE_MAX_LIFETIME" envDefault:"1h"`

	// Websocket gateway
	WSSendBuffer   int           `env:"WS_SEND_BUFFER" envDefault:"64"`
	WSReadLimit    int64         `env:"WS_READ_LIMIT" envDefault:"65536"`
	WSPingInterval time.Duration `env:"WS_PING_INTERVAL" envDefault:"30s"`
	WSWriteTimeout time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`

	// Query defaults
	MessagePageLimit      int `env:"MESSAGE_PAGE_LIMIT" envDefault:"20"`
	NotificationPageLimit int `env:"NOTIFICATION_PAGE_LIMIT" envDefault:"10"`

	// Notification fan-out
	BroadcastConcurrency int `env:"BROADCAST_CONCURRENCY" envDefault:"8"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("JWKS_URL is required when AUTH_ENABLED is true")
		}
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.WSSendBuffer < 1 {
		return nil, fmt.Errorf("WS_SEND_BUFFER must be at least 1")
	}
	if cfg.BroadcastConcurrency < 1 {
		return nil, fmt.Errorf("BROADCAST_CONCURRENCY must be at least 1")
	}

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
