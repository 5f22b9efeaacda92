// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// LeadStoreConfig provides settings for the lead store repository.
type LeadStoreConfig interface {
	GetLeadsTable() string
}

// CalendarConfig provides settings for the Google Calendar client.
type CalendarConfig interface {
	GetGoogleCredentialsFile() string
	GetGoogleTokenFile() string
}

// CacheConfig provides settings for the report cache.
type CacheConfig interface {
	GetRedisURL() string
	GetReportCacheTTL() time.Duration
	IsCacheEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                   string
	HTTPAddr              string
	DatabaseURL           string
	LeadsTable            string
	GoogleCredentialsFile string
	GoogleTokenFile       string
	RedisURL              string
	ReportCacheTTL        time.Duration
	CORSAllowAll          bool
	CORSOrigins           []string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// LeadStoreConfig implementation
func (c *Config) GetLeadsTable() string { return c.LeadsTable }

// CalendarConfig implementation
func (c *Config) GetGoogleCredentialsFile() string { return c.GoogleCredentialsFile }
func (c *Config) GetGoogleTokenFile() string       { return c.GoogleTokenFile }

// CacheConfig implementation
func (c *Config) GetRedisURL() string              { return c.RedisURL }
func (c *Config) GetReportCacheTTL() time.Duration { return c.ReportCacheTTL }
func (c *Config) IsCacheEnabled() bool             { return c.RedisURL != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                   getEnv("APP_ENV", "development"),
		HTTPAddr:              getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		LeadsTable:            getEnv("LEADS_TABLE", "leads_data"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		GoogleTokenFile:       getEnv("GOOGLE_TOKEN_FILE", "token.json"),
		RedisURL:              getEnv("REDIS_URL", ""),
		ReportCacheTTL:        mustDuration(getEnv("REPORT_CACHE_TTL", "1h")),
		CORSAllowAll:          corsAllowAll,
		CORSOrigins:           corsOrigins,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if !isValidIdentifier(cfg.LeadsTable) {
		return nil, fmt.Errorf("LEADS_TABLE %q is not a valid table identifier", cfg.LeadsTable)
	}
	if cfg.ReportCacheTTL <= 0 {
		cfg.ReportCacheTTL = time.Hour
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

// isValidIdentifier reports whether the value is safe to use as the leads
// table name. The table name is the one identifier that cannot be passed as a
// bind parameter in the fetch query.
func isValidIdentifier(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
