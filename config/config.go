package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	HTTPPort        int
	ShutdownTimeout time.Duration

	StorageDriver string

	PostgresHost        string
	PostgresPort        string
	PostgresUser        string
	PostgresPassword    string
	PostgresDB          string
	PostgresSSLMode     string
	PostgresAutoMigrate bool

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	RabbitMQURL      string
	RabbitMQExchange string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "roadside"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))

	cfg.HTTPPort = cast.ToInt(getOrReturnDefault("HTTP_PORT", 8080))
	cfg.ShutdownTimeout = cast.ToDuration(getOrReturnDefault("SHUTDOWN_TIMEOUT", "10s"))

	cfg.StorageDriver = cast.ToString(getOrReturnDefault("STORAGE_DRIVER", StorageDriverPostgres))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "postgres"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "roadside"))
	cfg.PostgresSSLMode = cast.ToString(getOrReturnDefault("POSTGRES_SSLMODE", "disable"))
	cfg.PostgresAutoMigrate = cast.ToBool(getOrReturnDefault("POSTGRES_AUTO_MIGRATE", true))

	cfg.JWTSecret = cast.ToString(getOrReturnDefault("JWT_SECRET", "change-me"))
	cfg.SessionTTL = cast.ToDuration(getOrReturnDefault("SESSION_TTL", "24h"))
	cfg.CookieSecure = cast.ToBool(getOrReturnDefault("COOKIE_SECURE", false))

	cfg.RabbitMQURL = cast.ToString(getOrReturnDefault("RABBITMQ_URL", ""))
	cfg.RabbitMQExchange = cast.ToString(getOrReturnDefault("RABBITMQ_EXCHANGE", "roadside.events"))

	return cfg
}

// PostgresURL is used both by the pgx pool and by golang-migrate.
func (c Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     fmt.Sprintf("%s:%s", c.PostgresHost, c.PostgresPort),
		Path:     c.PostgresDB,
		RawQuery: "sslmode=" + url.QueryEscape(c.PostgresSSLMode),
	}
	return u.String()
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
