package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.PostgresAutoMigrate)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("POSTGRES_AUTO_MIGRATE", "false")

	cfg := Load()

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.PostgresAutoMigrate)
}

func TestPostgresURL_EscapesCredentials(t *testing.T) {
	cfg := Config{
		PostgresUser:     "dispatch",
		PostgresPassword: "p@ss word",
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresDB:       "roadside",
		PostgresSSLMode:  "disable",
	}

	assert.Equal(t, "postgres://dispatch:p%40ss%20word@db:5433/roadside?sslmode=disable", cfg.PostgresURL())
}
