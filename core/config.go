package core

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the API process. It is built once at
// startup and passed by value; request handlers never read the environment.
type Config struct {
	Port             string        // HTTP listen port (e.g., "3000")
	DatabaseURL      string        // PostgreSQL DSN (overrides DB_* parts when set)
	DBHost           string        // database host
	DBPort           string        // database port
	DBName           string        // database name
	DBUser           string        // database user
	DBPassword       string        // database password
	DBConnectTimeout time.Duration // bound on pool dial + ping at startup
	AccessSecret     string        // HMAC secret for access tokens
	RefreshSecret    string        // HMAC secret for refresh tokens
	AccessTTL        time.Duration // access token lifetime
	RefreshTTL       time.Duration // refresh token lifetime; also rt cookie max-age
	RedisURL         string        // optional; enables the revocation watermark
	DevOrigin        string        // allowed cross-origin host (development only)
	CookieSecure     bool          // whether to set Secure flag on token cookies
	LogDir           string        // directory to write application logs
}

// fileConfig is the optional YAML overlay read from CONFIG_FILE. Only keys
// present in the file override the environment.
type fileConfig struct {
	Port           string `yaml:"port"`
	DatabaseURL    string `yaml:"database_url"`
	RedisURL       string `yaml:"redis_url"`
	AccessSecret   string `yaml:"access_secret"`
	RefreshSecret  string `yaml:"refresh_secret"`
	AccessTTLSecs  int    `yaml:"access_ttl_seconds"`
	RefreshTTLSecs int    `yaml:"refresh_ttl_seconds"`
	DevOrigin      string `yaml:"dev_origin"`
	LogDir         string `yaml:"log_dir"`
}

// Load populates Config from environment variables, applying the CONFIG_FILE
// YAML overlay when present. Call Validate before using the result.
func Load() (Config, error) {
	cfg := Config{
		Port:             os.Getenv("APP_PORT"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBHost:           firstNonEmpty(os.Getenv("DB_HOST"), "localhost"),
		DBPort:           firstNonEmpty(os.Getenv("DB_PORT"), "5432"),
		DBName:           os.Getenv("DB_NAME"),
		DBUser:           firstNonEmpty(os.Getenv("DB_USER"), "postgres"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBConnectTimeout: time.Duration(intFromEnv("DB_CONNECT_TIMEOUT_MS", 0)) * time.Millisecond,
		AccessSecret:     os.Getenv("AT_SECRET"),
		RefreshSecret:    os.Getenv("RT_SECRET"),
		AccessTTL:        time.Duration(intFromEnv("AT_TTL", 0)) * time.Second,
		RefreshTTL:       time.Duration(intFromEnv("RT_TTL", 0)) * time.Second,
		RedisURL:         os.Getenv("REDIS_URL"),
		DevOrigin:        os.Getenv("DEV_ORIGIN"),
		CookieSecure:     boolFromEnv("COOKIE_SECURE", true),
		LogDir:           firstNonEmpty(os.Getenv("LOG_DIR"), "/var/log/session-token"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// applyFile merges a YAML overlay into cfg. File values win over environment
// values for keys the file actually sets.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Port = firstNonEmpty(fc.Port, cfg.Port)
	cfg.DatabaseURL = firstNonEmpty(fc.DatabaseURL, cfg.DatabaseURL)
	cfg.RedisURL = firstNonEmpty(fc.RedisURL, cfg.RedisURL)
	cfg.AccessSecret = firstNonEmpty(fc.AccessSecret, cfg.AccessSecret)
	cfg.RefreshSecret = firstNonEmpty(fc.RefreshSecret, cfg.RefreshSecret)
	cfg.DevOrigin = firstNonEmpty(fc.DevOrigin, cfg.DevOrigin)
	cfg.LogDir = firstNonEmpty(fc.LogDir, cfg.LogDir)
	if fc.AccessTTLSecs > 0 {
		cfg.AccessTTL = time.Duration(fc.AccessTTLSecs) * time.Second
	}
	if fc.RefreshTTLSecs > 0 {
		cfg.RefreshTTL = time.Duration(fc.RefreshTTLSecs) * time.Second
	}
	return nil
}

// Validate reports the first missing or inconsistent required setting.
// A failure here is startup-fatal; it is never a per-request condition.
func (c Config) Validate() error {
	switch {
	case c.Port == "":
		return errors.New("APP_PORT is required")
	case c.DatabaseURL == "" && c.DBName == "":
		return errors.New("DATABASE_URL or DB_NAME is required")
	case c.DBConnectTimeout <= 0:
		return errors.New("DB_CONNECT_TIMEOUT_MS is required and must be positive")
	case c.AccessSecret == "":
		return errors.New("AT_SECRET is required")
	case c.RefreshSecret == "":
		return errors.New("RT_SECRET is required")
	case c.AccessSecret == c.RefreshSecret:
		return errors.New("AT_SECRET and RT_SECRET must differ")
	case c.AccessTTL <= 0:
		return errors.New("AT_TTL is required and must be positive")
	case c.RefreshTTL <= 0:
		return errors.New("RT_TTL is required and must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string, preferring DatabaseURL.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// boolFromEnv reads a boolean from env var name, falling back to defaultVal when empty or invalid.
func boolFromEnv(name string, defaultVal bool) bool {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

// intFromEnv reads an int from env var name, falling back to defaultVal when empty or invalid.
func intFromEnv(name string, defaultVal int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
