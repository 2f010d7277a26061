package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gstbook/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "GSTBook", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "en-IN", cfg.App.Locale)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.AuthEnabled())
	assert.Equal(t, "postgres://postgres:@localhost:5432/gstbook?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "books")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("AUTH_API_KEY", "key")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.Contains(t, cfg.ConnectionString(), "/books?sslmode=require")
}

func TestLoad_SecretWithoutAPIKey(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")

	_, err := config.Load()
	assert.Error(t, err)
}
