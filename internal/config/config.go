// Package config loads service settings from CART_* environment variables,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const prefix = "CART"

type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":9090"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"sqlite"`
	StoreDSN    string `envconfig:"STORE_DSN" default:"foodcart.db"`

	// Empty disables idempotent checkout replay.
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	// Empty logs events instead of publishing them.
	AMQPURI      string `envconfig:"AMQP_URI"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"foodcart.events"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	// A cart session, and its promo discount, ends after this much idle time.
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`

	OTLPEndpoint string `envconfig:"OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"cart-service"`
	Environment  string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads envFiles (a missing file is skipped, variables already set win)
// and then the environment.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: %s_JWT_SECRET is empty", prefix)
	}
	return &cfg, nil
}

// LoadStore reads only the record store settings, for commands that do not
// serve traffic.
func LoadStore(envFiles ...string) (driver, dsn string, err error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var s struct {
		Driver string `envconfig:"STORE_DRIVER" default:"sqlite"`
		DSN    string `envconfig:"STORE_DSN" default:"foodcart.db"`
	}
	if err := envconfig.Process(prefix, &s); err != nil {
		return "", "", fmt.Errorf("config: %w", err)
	}
	return s.Driver, s.DSN, nil
}
