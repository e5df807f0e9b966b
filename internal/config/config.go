package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все параметры запуска шлюза.
type Config struct {
	Env               string
	HTTPPort          string
	LogLevel          string
	APIBaseURL        string
	APITimeout        time.Duration
	DatabaseURL       string
	MigrationsPath    string
	PollInterval      time.Duration
	CatalogueCacheTTL time.Duration
	UpstreamJWTSecret string
	SessionTTL        time.Duration
	AllowedOrigins    []string
	RateLimitLimit    int64
	RateLimitPeriod   time.Duration
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:               env,
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", ""),
		APIBaseURL:        strings.TrimRight(getEnv("API_BASE_URL", ""), "/"),
		DatabaseURL:       getDatabaseURL(),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		UpstreamJWTSecret: getEnv("UPSTREAM_JWT_SECRET", ""),
	}

	if cfg.APIBaseURL == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: API_BASE_URL обязателен в production")
		}
		cfg.APIBaseURL = "http://localhost:3000"
		log.Printf("config: WARNING - API_BASE_URL не задан, используется %s", cfg.APIBaseURL)
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("config: API_BASE_URL некорректен: %w", err)
	}

	// CORS allowed origins
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "")
	if originsStr == "" {
		if env == "production" {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
		cfg.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3001"}
	} else {
		for _, origin := range strings.Split(originsStr, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	cfg.APITimeout = mustParseDuration(getEnv("API_TIMEOUT", "15s"))
	cfg.PollInterval = mustParseDuration(getEnv("POLL_INTERVAL", "5s"))
	cfg.SessionTTL = mustParseDuration(getEnv("SESSION_TTL", "24h"))
	// 0 выключает кэш публичного каталога.
	cfg.CatalogueCacheTTL = mustParseDuration(getEnv("CATALOGUE_CACHE_TTL", "30s"))

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("config: POLL_INTERVAL должен быть положительным")
	}

	// Rate limiting настройки
	cfg.RateLimitLimit = mustParseInt64(getEnv("RATE_LIMIT_LIMIT", "10"))
	cfg.RateLimitPeriod = mustParseDuration(getEnv("RATE_LIMIT_PERIOD", "1m"))

	return cfg, nil
}

// UseDatabase false - водяные знаки и уведомления хранятся в памяти.
func (c *Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}

// getEnv возвращает значение переменной окружения или дефолт. Пустое значение считается незаданным.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getDatabaseURL возвращает DATABASE_URL либо собирает из отдельных переменных.
// Пустая строка означает работу без базы.
func getDatabaseURL() string {
	if dbURL := getEnv("DATABASE_URL", ""); dbURL != "" {
		return dbURL
	}

	host := getEnv("POSTGRESQL_HOST", "")
	port := getEnv("POSTGRESQL_PORT", "5432")
	user := getEnv("POSTGRESQL_USER", "")
	password := getEnv("POSTGRESQL_PASSWORD", "")
	dbname := getEnv("POSTGRESQL_DBNAME", "")

	if host != "" && user != "" && dbname != "" {
		userInfo := url.UserPassword(user, password)
		return fmt.Sprintf("postgres://%s@%s:%s/%s?sslmode=disable",
			userInfo.String(), host, port, dbname)
	}

	return ""
}

// mustParseDuration безопасно парсит строку в duration.
func mustParseDuration(v string) time.Duration {
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: не удалось распарсить длительность %q: %v", v, err)
	}
	return dur
}

// mustParseInt64 безопасно парсит строку в int64.
func mustParseInt64(v string) int64 {
	num, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("config: не удалось распарсить число %q: %v", v, err)
	}
	return num
}
