// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env`
// file when present), loads them into structured Go types and
// validates that required values are present so they can be
// reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional blocks (catalog limits, observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix CATALOG_. Keys are lowercased and the
	prefix removed; nesting uses "." so the variable names carry the dots:

		CATALOG_SERVER.PORT=8080 -> server.port -> Config.Server.Port
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "CATALOG_"

// ServiceName identifies this service in logs, traces and APM dashboards.
const ServiceName = "movie-catalog"

// Config is the root configuration object for the application.
//
// Catalog and Observability are pointers because they are optional.
// Their defaults are in place before the environment is applied.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Catalog       *CatalogConfig       `koanf:"catalog"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// IntegrationConfig holds credentials for third-party services.
//
// Both values are optional: without a Resend key or a curator address
// the "movie added" notification job is a no-op.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	CuratorEmail string `koanf:"curator_email" validate:"omitempty,email"`
}

// CatalogConfig tunes catalog behaviour.
type CatalogConfig struct {
	// DirectorMoviesLimit caps the movies listed on a director page.
	DirectorMoviesLimit int `koanf:"director_movies_limit" validate:"min=1"`

	// RecentMoviesLimit caps the movies listed on the home page.
	RecentMoviesLimit int `koanf:"recent_movies_limit" validate:"min=1"`

	// MaxCoverBytes caps the decoded size of an uploaded cover image.
	MaxCoverBytes int `koanf:"max_cover_bytes" validate:"min=1024"`

	// RequestBodyLimit is passed to echo's BodyLimit middleware (e.g. "4M").
	RequestBodyLimit string `koanf:"request_body_limit" validate:"required"`

	// RateLimit is the sustained number of requests per second per client IP.
	RateLimit float64 `koanf:"rate_limit" validate:"gt=0"`

	// StaticDir holds openapi.json, the docs page and the page assets,
	// served under /static.
	StaticDir string `koanf:"static_dir" validate:"required"`

	// DocsTitle is the title of the /docs page.
	DocsTitle string `koanf:"docs_title" validate:"required"`
}

// DefaultCatalogConfig returns the catalog defaults used when no catalog
// block is configured.
func DefaultCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		DirectorMoviesLimit: 10,
		RecentMoviesLimit:   10,
		MaxCoverBytes:       2 << 20,
		RequestBodyLimit:    "4M",
		RateLimit:           20,
		StaticDir:           "static",
		DocsTitle:           "Movie Catalog API",
	}
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults and returns the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	return load(k)
}

// listKeys are the config keys given as comma-separated lists.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

// envValue maps CATALOG_SERVER.PORT to "server.port" and splits list values.
func envValue(name, value string) (string, interface{}) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	if !listKeys[key] {
		return key, value
	}

	items := strings.Split(value, ",")
	list := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return key, list
}

// load decodes and validates an already populated koanf instance.
// Split from LoadConfig so tests can feed values without touching the env.
//
// Optional blocks are pre-filled with their defaults, so a partially
// configured block only overrides the keys it names.
func load(k *koanf.Koanf) (*Config, error) {
	mainConfig := &Config{
		Catalog:       DefaultCatalogConfig(),
		Observability: DefaultObservabilityConfig(),
	}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// Service name and environment always follow the primary config.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	// Validates the whole tree, including the optional blocks.
	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
