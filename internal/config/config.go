package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"church-app-go/pkg/logger"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	DB          DBConfig
	Supabase    SupabaseConfig
	Outbox      OutboxConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SupabaseConfig configures the hosted identity provider. When JWTSecret is
// set, access tokens are verified locally; otherwise every request is
// introspected against the provider's user endpoint.
type SupabaseConfig struct {
	URL            string
	PublishableKey string
	ServiceRoleKey string
	JWTSecret      string
	AuthTimeout    time.Duration
	AuthCacheTTL   time.Duration
	AuthCacheSize  int
	SkipAuth       bool
	MockUserID     string
	MockEmail      string
	MockRole       string
	MockChurchID   string
	MockChurchSlug string
	MockMemberID   string
}

type OutboxConfig struct {
	Enabled     bool
	Schedule    string
	MaxAttempts int
	RetryBase   time.Duration
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvCSV("CORS_ORIGINS", []string{"http://localhost:3000"}),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "church_app"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			PublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
			ServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
			JWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
			AuthCacheTTL:   getEnvDuration("AUTH_CACHE_TTL", time.Minute),
			AuthCacheSize:  getEnvInt("AUTH_CACHE_SIZE", 1024),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockEmail:      getEnv("AUTH_MOCK_EMAIL", ""),
			MockRole:       getEnv("AUTH_MOCK_ROLE", "ADMIN"),
			MockChurchID:   getEnv("AUTH_MOCK_CHURCH_ID", ""),
			MockChurchSlug: getEnv("AUTH_MOCK_CHURCH_SLUG", ""),
			MockMemberID:   getEnv("AUTH_MOCK_MEMBER_ID", ""),
		},
		Outbox: OutboxConfig{
			Enabled:     getEnvBool("OUTBOX_ENABLED", true),
			Schedule:    getEnv("OUTBOX_SCHEDULE", "@every 1m"),
			MaxAttempts: getEnvInt("OUTBOX_MAX_ATTEMPTS", 10),
			RetryBase:   getEnvDuration("OUTBOX_RETRY_BASE", 30*time.Second),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvCSV(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
