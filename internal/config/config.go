package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers for the durable client session storage.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Config aggregates runtime configuration for the console.
type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Session  SessionConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Routes   RoutesConfig
	Stub     StubConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// BackendConfig points at the remote hospital-management API.
type BackendConfig struct {
	BaseURL            string
	LoginPath          string
	AuthTimeoutSeconds int
}

// SessionConfig describes where client sessions live and how browsers are identified.
type SessionConfig struct {
	StorageDriver string
	CookieName    string
	CookieSecure  bool
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// RoutesConfig optionally overrides the built-in role-route map.
type RoutesConfig struct {
	File string
}

// StubConfig configures the development authentication stub.
type StubConfig struct {
	Host            string
	Port            string
	JWTSecret       string
	TokenTTLMinutes int
	BcryptCost      int
	AccountsFile    string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "medicity-console"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Backend: BackendConfig{
			BaseURL:            strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:3000"), "/"),
			LoginPath:          getEnv("AUTH_LOGIN_PATH", "/auth/login"),
			AuthTimeoutSeconds: getEnvAsInt("AUTH_TIMEOUT_SECONDS", 10),
		},
		Session: SessionConfig{
			StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "medicity_client"),
			CookieSecure:  getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "medicity:console"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Routes: RoutesConfig{
			File: os.Getenv("ROUTES_FILE"),
		},
		Stub: StubConfig{
			Host:            getEnv("STUB_HOST", "127.0.0.1"),
			Port:            getEnv("STUB_PORT", "3000"),
			JWTSecret:       getEnv("STUB_JWT_SECRET", "dev-secret"),
			TokenTTLMinutes: getEnvAsInt("STUB_TOKEN_TTL_MINUTES", 60),
			BcryptCost:      getEnvAsInt("STUB_BCRYPT_COST", 10),
			AccountsFile:    os.Getenv("STUB_ACCOUNTS_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Session.StorageDriver {
	case StorageMemory, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Session.StorageDriver)
	}
	if c.Session.StorageDriver == StoragePostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required for the postgres storage driver")
	}

	backend, err := url.Parse(c.Backend.BaseURL)
	if err != nil || backend.Host == "" {
		return fmt.Errorf("invalid BACKEND_URL %q", c.Backend.BaseURL)
	}
	// credentials only travel over TLS once we leave local environments
	if !c.App.IsLocal() && backend.Scheme != "https" {
		return fmt.Errorf("BACKEND_URL must use https in %s", c.App.Env)
	}
	if !strings.HasPrefix(c.Backend.LoginPath, "/") {
		return fmt.Errorf("AUTH_LOGIN_PATH must start with /")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsLocal reports whether the console runs in a development or test environment.
func (a AppConfig) IsLocal() bool {
	switch strings.ToLower(a.Env) {
	case "development", "dev", "local", "test":
		return true
	}
	return false
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// LoginURL is the absolute authentication endpoint.
func (b BackendConfig) LoginURL() string {
	return b.BaseURL + b.LoginPath
}

// AuthTimeout bounds a single login request.
func (b BackendConfig) AuthTimeout() time.Duration {
	if b.AuthTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(b.AuthTimeoutSeconds) * time.Second
}

// Addr returns the stub bind address.
func (s StubConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
