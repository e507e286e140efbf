// Package config loads service configuration from defaults, an optional YAML
// file, a .env file and DINER_* environment variables, in that order.
package config

import (
	"time"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Postgres PostgresConfig `koanf:"postgres"`
	Mongo    MongoConfig    `koanf:"mongo"`
	Auth     AuthConfig     `koanf:"auth"`
	Authz    AuthzConfig    `koanf:"authz"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// PostgresConfig points at the order store.
type PostgresConfig struct {
	DSN            string `koanf:"dsn" validate:"required"`
	MigrateOnStart bool   `koanf:"migrate_on_start"`
}

// MongoConfig points at the menu and user store.
type MongoConfig struct {
	URI            string        `koanf:"uri" validate:"required"`
	Database       string        `koanf:"database" validate:"required"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// AuthConfig controls token issuance and verification. Keys are base64 encoded PEM.
type AuthConfig struct {
	PrivateKey      string        `koanf:"private_key" validate:"required"`
	PublicKey       string        `koanf:"public_key" validate:"required"`
	Issuer          string        `koanf:"issuer" validate:"required"`
	Audience        string        `koanf:"audience" validate:"required"`
	ClockSkew       time.Duration `koanf:"clock_skew" validate:"gte=0s"`
	RateLimit       int           `koanf:"rate_limit" validate:"min=0"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// AuthzConfig configures the policy check in front of administrative routes.
type AuthzConfig struct {
	// PolicyPath is a Rego module (OPA build) or a CSV policy file (casbin build).
	// Empty selects the embedded default policy.
	PolicyPath string `koanf:"policy_path"`
	// PolicyStore selects where casbin keeps policies: "file" or "postgres".
	PolicyStore string `koanf:"policy_store" validate:"oneof=file postgres"`
}

// LoggingConfig configures the service logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              5000,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      20 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"https://*.netlify.app",
			},
		},
		Postgres: PostgresConfig{
			MigrateOnStart: true,
		},
		Mongo: MongoConfig{
			Database:       "digitaldiner",
			ConnectTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			Issuer:          "digital-diner",
			Audience:        "digital-diner-api",
			ClockSkew:       time.Minute,
			RateLimit:       10,
			RateLimitWindow: time.Minute,
		},
		Authz: AuthzConfig{
			PolicyStore: "file",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
