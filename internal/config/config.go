// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration of the API server. Each field
// corresponds to an environment variable; see Load for which are required.
type Config struct {
	Env            string // application environment (dev/test/prod)
	Port           string // HTTP port to listen on
	DBUser         string
	DBPass         string // may be empty
	DBHost         string
	DBPort         string
	DBName         string
	JWTSecret      string // HMAC secret used to sign access tokens
	AccessTTLMin   int    // access token lifetime in minutes
	RefreshTTLDays int    // refresh token lifetime in days
	BcryptCost     int

	Timezone       string // IANA zone in which reservation dates are interpreted
	AutoMigrate    bool   // run embedded migrations on startup
	MetricsEnabled bool   // expose /metrics
	LogLevel       string // debug, info, warn or error
	DBTimeout      time.Duration

	SystemAdminSignup bool // expose POST /v1/auth/system-admin/register
}

// Load reads configuration values from environment variables. Required
// variables are enforced by must() and a missing value halts the process.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		Timezone:       envStr("APP_TIMEZONE", "Asia/Tokyo"),
		AutoMigrate:    envBool("DB_AUTO_MIGRATE", true),
		MetricsEnabled: envBool("METRICS_ENABLED", true),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		DBTimeout:      envDur("DB_TIMEOUT", 5*time.Second),

		SystemAdminSignup: envBool("SYSTEM_ADMIN_SIGNUP_ENABLED", false),
	}
}

// Location resolves Timezone. An unknown zone falls back to UTC and is
// reported by the returned error so the caller can log it.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
