package config

import (
	"editorial-backend/internal/infrastructure/database"
)

// PoolConfig maps an env-parsed database section onto the
// infrastructure pool configuration.
func (c DatabaseConfig) PoolConfig() *database.DBConfig {
	return &database.DBConfig{
		Host:              c.Host,
		Port:              c.Port,
		Username:          c.User,
		Password:          c.Password,
		DBName:            c.Name,
		SSLMode:           c.SSLMode,
		MaxConns:          int32(c.MaxConns),
		MinConns:          int32(c.MinConns),
		MaxConnLifetime:   c.MaxConnLifetime,
		MaxConnIdleTime:   c.MaxConnIdleTime,
		HealthCheckPeriod: c.HealthCheckPeriod,
		MaxRetries:        c.MaxRetries,
		RetryDelay:        c.RetryDelay,
		ConnectTimeout:    c.ConnectTimeout,
	}
}
