package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Search   SearchConfig
	Stats    StatsConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// SearchConfig holds the catalogue-wide values the predicate builder needs.
// A zero PendingTermsListID disables the pending-terms exclusion.
type SearchConfig struct {
	PendingTermsListID int64
	EnglishLanguageID  int64
	DefaultPageSize    int
	MaxPageSize        int
}

type StatsConfig struct {
	Concurrency     int
	DefaultDateFrom string
}

type LogConfig struct {
	Level  string
	Format string
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads configuration from the environment. When envFile is non-empty
// it is loaded first; variables already set in the process win.
func Load(envFile string) (Config, error) {
	if strings.TrimSpace(envFile) != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	cfg := Config{}

	var invalid []string
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}
	optInt := func(key string, def int64) int64 {
		raw := opt(key, "")
		if raw == "" {
			return def
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	optSeconds := func(key string, def time.Duration) time.Duration {
		v := optInt(key, -1)
		if v < 0 {
			return def
		}
		return time.Duration(v) * time.Second
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "talent-catalog"),
		Environment: opt("APP_ENV", "development"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", ""),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optSeconds("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optSeconds("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optSeconds("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optSeconds("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       int(optInt("REDIS_DB", 0)),
		TTL:      optSeconds("REDIS_TTL", 600*time.Second),
	}

	cfg.Search = SearchConfig{
		PendingTermsListID: optInt("SEARCH_PENDING_TERMS_LIST_ID", 0),
		EnglishLanguageID:  optInt("SEARCH_ENGLISH_LANGUAGE_ID", 0),
		DefaultPageSize:    int(optInt("SEARCH_DEFAULT_PAGE_SIZE", 20)),
		MaxPageSize:        int(optInt("SEARCH_MAX_PAGE_SIZE", 100)),
	}

	cfg.Stats = StatsConfig{
		Concurrency:     int(optInt("STATS_CONCURRENCY", 4)),
		DefaultDateFrom: opt("STATS_DEFAULT_DATE_FROM", "2000-01-01"),
	}

	cfg.Log = LogConfig{
		Level:  strings.ToLower(opt("LOG_LEVEL", "info")),
		Format: strings.ToLower(opt("LOG_FORMAT", "console")),
	}

	if cfg.Search.PendingTermsListID < 0 {
		invalid = append(invalid, "SEARCH_PENDING_TERMS_LIST_ID")
	}
	if cfg.Search.DefaultPageSize <= 0 || cfg.Search.MaxPageSize < cfg.Search.DefaultPageSize {
		invalid = append(invalid, "SEARCH_DEFAULT_PAGE_SIZE")
	}
	if _, err := time.Parse(time.DateOnly, cfg.Stats.DefaultDateFrom); err != nil {
		invalid = append(invalid, "STATS_DEFAULT_DATE_FROM")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// RequireDatabase reports the connection variables that commands touching
// Postgres cannot run without.
func (c DatabaseConfig) RequireDatabase() error {
	var missing []string
	req := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	req("DB_HOST", c.DBHost)
	req("DB_NAME", c.DBName)
	req("DB_USER", c.DBUser)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	return nil
}
