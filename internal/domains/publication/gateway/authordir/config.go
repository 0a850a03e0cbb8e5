package authordir

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// AUTHOR DIRECTORY CONFIGURATION
// =====================================================

const (
	defaultMaxAttempts    = 3
	defaultAttemptTimeout = 5 * time.Second
	defaultBackoffBase    = 1 * time.Second
	defaultHealthTimeout  = 3 * time.Second
)

type Config struct {
	BaseURL        string        // Authors service base URL, e.g. http://localhost:8081
	MaxAttempts    int           // Total attempts per call, including the first
	AttemptTimeout time.Duration // Per-attempt deadline
	BackoffBase    time.Duration // Base for exponential backoff between attempts
	HealthTimeout  time.Duration // Deadline for the single health probe

	// RetryAllFailures restores the blanket retry policy: every failed
	// attempt is retried, including 4xx responses.
	RetryAllFailures bool

	// StrictExistence makes Exists surface ErrDirectoryUnavailable when
	// retries are exhausted instead of treating the author as absent.
	StrictExistence bool
}

// NewConfig normalizes zero values to the documented defaults.
func NewConfig(cfg Config) *Config {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = defaultHealthTimeout
	}
	return &cfg
}

// existsURL returns the author existence probe endpoint.
func (c *Config) existsURL(authorID uuid.UUID) string {
	return fmt.Sprintf("%s/api/v1/authors/%s/exists", c.BaseURL, authorID)
}

// authorURL returns the author detail endpoint.
func (c *Config) authorURL(authorID uuid.UUID) string {
	return fmt.Sprintf("%s/api/v1/authors/%s", c.BaseURL, authorID)
}

// healthURL returns the directory health endpoint.
func (c *Config) healthURL() string {
	return fmt.Sprintf("%s/api/v1/health", c.BaseURL)
}
