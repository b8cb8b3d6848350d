package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env              string `env:"ENV" envDefault:"local"`
	Http             HttpConfig
	Storage          StorageConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Incident         IncidentConfig
	Scoring          ScoringConfig
	Events           EventsConfig
	Webhook          WebhookConfig
	RateLimit        RateLimitConfig
	ServiceAreasFile string `env:"SERVICE_AREAS_FILE"`
	TelemetryEnabled bool   `env:"TELEMETRY_ENABLED" envDefault:"false"`
	APIKey           string `env:"API_KEY"`
}

type HttpConfig struct {
	Port            string        `env:"HTTP_PORT" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"memory"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"pg-local"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	Database string `env:"POSTGRES_DB" envDefault:"emergency_hub"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	SSLMode  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"20"`
	Migrate  bool   `env:"POSTGRES_MIGRATE" envDefault:"true"`
}

// RedisConfig with an empty Addr disables the cache and the webhook queue.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	QueueKey string `env:"REDIS_EVENT_QUEUE" envDefault:"emergencyhub:events:queue"`
}

type IncidentConfig struct {
	MediaCap            int           `env:"INCIDENT_MEDIA_CAP" envDefault:"20"`
	MaxRetries          int           `env:"INCIDENT_MAX_RETRIES" envDefault:"3"`
	CacheTTL            time.Duration `env:"INCIDENT_CACHE_TTL" envDefault:"2m"`
	CacheRefresh        time.Duration `env:"INCIDENT_CACHE_REFRESH" envDefault:"30s"`
	AlertRadiusMeters   float64       `env:"INCIDENT_ALERT_RADIUS_M" envDefault:"1000"`
	DefaultNearbyRadius float64       `env:"INCIDENT_NEARBY_RADIUS_M" envDefault:"5000"`
}

type ScoringConfig struct {
	DecayGrace      time.Duration `env:"SCORE_DECAY_GRACE" envDefault:"24h"`
	DecayInterval   time.Duration `env:"SCORE_DECAY_INTERVAL" envDefault:"6h"`
	DecayStep       int           `env:"SCORE_DECAY_STEP" envDefault:"1"`
	DecayMaxPenalty int           `env:"SCORE_DECAY_MAX_PENALTY" envDefault:"25"`
}

type EventsConfig struct {
	NatsURL string `env:"NATS_URL"`
}

type WebhookConfig struct {
	URL      string `env:"WEBHOOK_URL"`
	Disabled bool   `env:"WEBHOOK_DISABLED" envDefault:"false"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		stdLogger.Warn(".env load warning", slog.Any("error", err))
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	stdLogger.Info("Config loaded successfully",
		slog.String("env", cfg.Env),
		slog.String("http_port", cfg.Http.Port),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("redis_addr", cfg.Redis.Addr),
		slog.Bool("webhook_enabled", cfg.WebhookEnabled()),
	)
	return cfg, nil
}

// Parse builds the config from the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config.Parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Http.Port == "" || c.Http.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Postgres.Host == "" {
			return errors.New("POSTGRES_HOST required")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage.Driver)
	}
	if c.Incident.MediaCap <= 0 {
		return errors.New("INCIDENT_MEDIA_CAP must be positive")
	}
	if c.Incident.MaxRetries <= 0 {
		return errors.New("INCIDENT_MAX_RETRIES must be positive")
	}
	if c.Incident.CacheRefresh <= 0 {
		return errors.New("INCIDENT_CACHE_REFRESH must be positive")
	}
	if c.Incident.AlertRadiusMeters <= 0 || c.Incident.DefaultNearbyRadius <= 0 {
		return errors.New("incident radii must be positive")
	}
	if c.Scoring.DecayInterval <= 0 || c.Scoring.DecayStep < 0 || c.Scoring.DecayMaxPenalty < 0 {
		return errors.New("SCORE_DECAY_* must be non-negative with a positive interval")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

func (c *Config) WebhookEnabled() bool {
	return !c.Webhook.Disabled && c.Webhook.URL != "" && c.Redis.Addr != ""
}
