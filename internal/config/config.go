package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverBolt     = "bolt"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	Monitor     MonitorConfig
	Tasks       TasksConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StorageConfig struct {
	Driver   string
	BoltPath string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

// RedisConfig configures the task cache. An empty URL disables it.
// Timeout bounds each cache round trip so a slow Redis degrades to the backing store.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
	CacheTTL time.Duration
	Timeout  time.Duration
}

func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

type MonitorConfig struct {
	Interval time.Duration
}

type TasksConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults suitable for local development.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "todo-api"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "5136"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getString("STORAGE_DRIVER", StorageDriverPostgres)),
			BoltPath: getString("BOLTDB_PATH", "./data/tasks.db"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "todo_db"),
			User:            getString("DB_USER", "todo_user"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			CacheTTL: getDuration("CACHE_TTL", 5*time.Minute),
			Timeout:  getDuration("REDIS_TIMEOUT", 200*time.Millisecond),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
		Monitor: MonitorConfig{
			Interval: getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
		Tasks: TasksConfig{
			DefaultPageSize: getInt("TASKS_DEFAULT_PAGE_SIZE", 50),
			MaxPageSize:     getInt("TASKS_MAX_PAGE_SIZE", 100),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverBolt:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Tasks.DefaultPageSize < 1 {
		return fmt.Errorf("TASKS_DEFAULT_PAGE_SIZE must be positive, got %d", c.Tasks.DefaultPageSize)
	}
	if c.Tasks.MaxPageSize < c.Tasks.DefaultPageSize {
		return fmt.Errorf("TASKS_MAX_PAGE_SIZE (%d) is below TASKS_DEFAULT_PAGE_SIZE (%d)", c.Tasks.MaxPageSize, c.Tasks.DefaultPageSize)
	}
	return nil
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
