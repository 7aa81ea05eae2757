// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret for admin sessions.
	JWTSecret string

	// Environment gates for destructive schema operations.
	AppEnv       string
	AllowDBReset bool

	// Server
	Debug       bool
	Port        string
	TLSDomains  []string
	CORSOrigins []string

	// Logging – LogFile enables a rotated file alongside stdout.
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int

	// Public links rendered by the site.
	CalendlyURL     string
	WhatsAppURL     string
	GAMeasurementID string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg := FromViper(newViper())
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// FromViper builds a Config from an already-populated viper instance,
// applying defaults for anything unset.
func FromViper(v *viper.Viper) *Config {
	// Defaults
	v.SetDefault("DB_USER", "runspire")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "run_coach")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOW_DB_RESET", false)
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "runspire.com,www.runspire.com")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_MAX_SIZE_MB", 50)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("CALENDLY_URL", "https://calendly.com/nissbloom/30min")
	v.SetDefault("WHATSAPP_URL", "https://wa.me/972586690059?text=Hi%20there!")

	return &Config{
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBUser:          v.GetString("DB_USER"),
		DBPass:          v.GetString("DB_PASS"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		AppEnv:          strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		AllowDBReset:    v.GetBool("ALLOW_DB_RESET"),
		Debug:           v.GetBool("DEBUG"),
		Port:            v.GetString("PORT"),
		TLSDomains:      splitTrimmed(v.GetString("TLS_DOMAINS")),
		CORSOrigins:     splitTrimmed(v.GetString("CORS_ORIGINS")),
		LogFile:         v.GetString("LOG_FILE"),
		LogMaxSizeMB:    v.GetInt("LOG_MAX_SIZE_MB"),
		LogMaxBackups:   v.GetInt("LOG_MAX_BACKUPS"),
		CalendlyURL:     v.GetString("CALENDLY_URL"),
		WhatsAppURL:     v.GetString("WHATSAPP_URL"),
		GAMeasurementID: v.GetString("GA_MEASUREMENT_ID"),
	}
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// IsProduction reports whether destructive operations must be refused outright.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.DBPass == "" {
		return errors.New("DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters in production")
	}
	if c.IsProduction() && c.AllowDBReset {
		log.Println("config: ALLOW_DB_RESET is ignored in production")
	}
	return nil
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
