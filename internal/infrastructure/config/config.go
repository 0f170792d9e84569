package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"

	minSecretLength = 32
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	BcryptCost int `env:"BCRYPT_COST, default=10"`

	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite"`
	DSN    string `env:"DB_DSN,    default=file:accounts.db?_foreign_keys=on"`
	Debug  bool   `env:"DB_DEBUG,  default=false"`
}

// MongoConfig points at the audit trail. An empty URI disables auditing.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=accounts"`
}

// RedisConfig points at the token revocation list. An empty Addr disables it.
type RedisConfig struct {
	Addr           string `env:"REDIS_ADDR"`
	Password       string `env:"REDIS_PASSWORD"`
	DB             int    `env:"REDIS_DB,         default=0"`
	RevokeOnLogout bool   `env:"REVOKE_ON_LOGOUT, default=false"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// devSecret signs tokens in development when JWT_SECRET is unset.
const devSecret = "development-only-secret-do-not-use-in-production"

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// RevocationEnabled reports whether logout should revoke tokens in Redis.
func (c *Config) RevocationEnabled() bool {
	return c.Redis.Addr != "" && c.Redis.RevokeOnLogout
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required outside development")
		}
		c.JWTSecret = devSecret
	}
	if !c.IsDevelopment() && len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Audit.Workers <= 0 {
		return errors.New("AUDIT_WORKERS must be positive")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER %q is not supported (sqlite, postgres)", c.Database.Driver)
	}
	return nil
}
