package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name   string `envconfig:"APP_NAME" default:"GSTBook"`
		Port   int    `envconfig:"PORT" default:"8080"`
		Locale string `envconfig:"LOCALE" default:"en-IN"`
	}

	DB struct {
		Host         string        `envconfig:"DB_HOST" default:"localhost"`
		Port         int           `envconfig:"DB_PORT" default:"5432"`
		User         string        `envconfig:"DB_USER" default:"postgres"`
		Password     string        `envconfig:"DB_PASSWORD" default:""`
		Name         string        `envconfig:"DB_NAME" default:"gstbook"`
		SSLMode      string        `envconfig:"DB_SSLMODE" default:"disable"`
		MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnLifetime time.Duration `envconfig:"DB_CONN_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		// Secret signs bearer tokens. An empty secret disables auth.
		Secret   string        `envconfig:"AUTH_SECRET"`
		APIKey   string        `envconfig:"AUTH_API_KEY"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
	}

	CORS struct {
		Origins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// AuthEnabled reports whether the API requires bearer tokens.
func (c *Config) AuthEnabled() bool {
	return c.Auth.Secret != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.AuthEnabled() && cfg.Auth.APIKey == "" {
		return nil, errors.New("AUTH_API_KEY is required when AUTH_SECRET is set")
	}

	return &cfg, nil
}
