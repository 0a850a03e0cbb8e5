package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the whole application configuration, populated from
// environment variables. Both services and the worker share this
// struct; each binary reads the sections it needs.
type Config struct {
	App             AppConfig             `envPrefix:"APP_"`
	AuthorsDB       DatabaseConfig        `envPrefix:"AUTHORS_DB_"`
	PublicationsDB  DatabaseConfig        `envPrefix:"PUBLICATIONS_DB_"`
	Redis           RedisConfig           `envPrefix:"REDIS_"`
	JWT             JWTConfig             `envPrefix:"JWT_"`
	MinIO           MinIOConfig           `envPrefix:"MINIO_"`
	AuthorDirectory AuthorDirectoryConfig `envPrefix:"AUTHOR_DIRECTORY_"`
	Jobs            JobConfig             `envPrefix:"JOBS_"`
}

type AppConfig struct {
	Name             string `env:"NAME" envDefault:"editorial-backend"`
	Environment      string `env:"ENV" envDefault:"development"` // development, staging, production
	AuthorsPort      string `env:"AUTHORS_PORT" envDefault:"8081"`
	PublicationsPort string `env:"PUBLICATIONS_PORT" envDefault:"8080"`
	Version          string `env:"VERSION" envDefault:"1.0.0"`
}

// DatabaseConfig is parsed once per service database (AUTHORS_DB_*,
// PUBLICATIONS_DB_*). Durations use Go syntax ("5m", "10s").
type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"editorial"`
	Password string `env:"PASSWORD" envDefault:"secret"`
	Name     string `env:"NAME,required"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`

	MaxConns          int           `env:"MAX_CONNECTIONS" envDefault:"25"`
	MinConns          int           `env:"MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime   time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"5m"`
	MaxConnIdleTime   time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"1m"`
	HealthCheckPeriod time.Duration `env:"HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MaxRetries        int           `env:"MAX_RETRIES" envDefault:"5"`
	RetryDelay        time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
	ConnectTimeout    time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}

type JWTConfig struct {
	Secret   string        `env:"SECRET,required"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// EditorAPIKeyHash is the bcrypt hash of the shared editor API key.
	// POST /auth/token checks the presented key against it. Leaving it
	// empty disables token issuing.
	EditorAPIKeyHash string `env:"EDITOR_API_KEY_HASH" envDefault:""`
}

type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"BUCKET" envDefault:"editorial"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// AuthorDirectoryConfig drives the publications service's HTTP client
// for the authors registry, including its retry policy.
type AuthorDirectoryConfig struct {
	BaseURL        string        `env:"BASE_URL" envDefault:"http://localhost:8081"`
	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	AttemptTimeout time.Duration `env:"ATTEMPT_TIMEOUT" envDefault:"5s"`
	BackoffBase    time.Duration `env:"BACKOFF_BASE" envDefault:"1s"`
	HealthTimeout  time.Duration `env:"HEALTH_TIMEOUT" envDefault:"3s"`

	// RetryAllFailures retries every failed attempt, 4xx included.
	// Default retries only timeouts, connection errors and 5xx.
	RetryAllFailures bool `env:"RETRY_ALL_FAILURES" envDefault:"false"`

	// StrictExistence surfaces an explicit error when the directory is
	// unreachable after retries. Default treats unreachable as absent.
	StrictExistence bool `env:"STRICT_EXISTENCE" envDefault:"false"`
}

type JobConfig struct {
	// ReviewReminderAge: publications sitting IN_REVIEW longer than
	// this are reported as overdue by the hourly reminder job.
	ReviewReminderAge   time.Duration `env:"REVIEW_REMINDER_AGE" envDefault:"48h"`
	ReviewReminderLimit int           `env:"REVIEW_REMINDER_LIMIT" envDefault:"100"`
}

// Load reads .env (when present) and parses the environment into a
// Config. Production deployments rely on real environment variables;
// the .env file is a development convenience.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations that would only fail later at runtime.
func (c *Config) Validate() error {
	if c.App.Environment == "production" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
	}
	if c.AuthorDirectory.MaxAttempts < 1 {
		return fmt.Errorf("AUTHOR_DIRECTORY_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
