package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Ingestion IngestionConfig
	Matching  MatchingConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	StoreBackend  string
	MigrationsDir string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	// PoolMaxConns overrides the pool size derived from INGEST_WORKERS when set.
	PoolMaxConns int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type IngestionConfig struct {
	SourceBackend  string
	JobsFile       string
	CandidatesFile string
	Workers        int
	ExtractWorkers int
	Interval       time.Duration
}

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendFile     = "file"
)

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optDefault := func(key, def string) string {
		if v := opt(key); v != "" {
			return v
		}
		return def
	}
	optInt := func(key string, def int) int {
		v := opt(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			invalid = append(invalid, key)
			return def
		}
		return n
	}
	optBool := func(key string) bool {
		v := opt(key)
		if v == "" {
			return false
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return b
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		v := opt(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			if secs, convErr := strconv.Atoi(v); convErr == nil && secs >= 0 {
				return time.Duration(secs) * time.Second
			}
			invalid = append(invalid, key)
			return def
		}
		if d < 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:       req("APP_NAME"),
		Environment:   req("APP_ENV"),
		HTTPPort:      opt("HTTP_PORT"),
		StoreBackend:  strings.ToLower(optDefault("STORE_BACKEND", BackendPostgres)),
		MigrationsDir: opt("MIGRATIONS_DIR"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  optDefault("DB_SSL_MODE", "disable"),

		ConnectTimeout: optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS", 0)),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     optDefault("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      optDuration("REDIS_TTL", 600*time.Second),
	}

	cfg.Log = LogConfig{
		JSON:  optBool("LOG_JSON"),
		Debug: optBool("LOG_DEBUG"),
	}

	cfg.Ingestion = IngestionConfig{
		SourceBackend:  strings.ToLower(optDefault("SOURCE_BACKEND", BackendPostgres)),
		JobsFile:       opt("JOBS_FILE"),
		CandidatesFile: opt("CANDIDATES_FILE"),
		Workers:        optInt("INGEST_WORKERS", 4),
		ExtractWorkers: optInt("INGEST_EXTRACT_WORKERS", 8),
		Interval:       optDuration("INGEST_INTERVAL", 0),
	}

	switch cfg.App.StoreBackend {
	case BackendPostgres, BackendMemory:
	default:
		invalid = append(invalid, "STORE_BACKEND")
	}
	switch cfg.Ingestion.SourceBackend {
	case BackendPostgres, BackendFile:
	default:
		invalid = append(invalid, "SOURCE_BACKEND")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	m, err := LoadMatching(opt("MATCHING_CONFIG"))
	if err != nil {
		return Config{}, err
	}
	cfg.Matching = m

	return cfg, nil
}

// NeedsPostgres reports whether any configured backend talks to Postgres.
func (c Config) NeedsPostgres() bool {
	return c.App.StoreBackend == BackendPostgres || c.Ingestion.SourceBackend == BackendPostgres
}
