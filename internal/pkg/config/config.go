package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds the blogctl client settings.
type Config struct {
	APIURL          string        `env:"BLOG_API_URL,      default=http://localhost:3001"`
	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT,      default=10s"`
	StorageBackend  string        `env:"STORAGE_BACKEND,   default=sqlite"`
	SQLitePath      string        `env:"SQLITE_PATH"`
	SearchMinLength int           `env:"SEARCH_MIN_LENGTH, default=2"`
	PrefersDark     bool          `env:"PREFERS_DARK,      default=false"`
	LogLevel        string        `env:"LOG_LEVEL,         default=warn"`
	LogPretty       bool          `env:"LOG_PRETTY,        default=true"`
	Workers         int           `env:"INTENT_WORKERS,    default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

// ServerConfig holds the mock API settings.
type ServerConfig struct {
	Port       string `env:"PORT,            default=3001"`
	Env        string `env:"ENV,             default=development"`
	JWTSecret  string `env:"JWT_SECRET"`
	LogLevel   string `env:"LOG_LEVEL,       default=info"`
	Repository string `env:"MOCK_REPOSITORY, default=memory"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog_client"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=blog:"`
}

// Load reads the client configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads the client configuration from an explicit lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: load client configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = defaultSQLitePath()
	}
	return &cfg, nil
}

// LoadServer reads the mock API configuration from environment variables.
func LoadServer(ctx context.Context) *ServerConfig {
	var cfg ServerConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load server configuration: %v", err))
	}
	return &cfg
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageSQLite, StorageRedis, StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.SearchMinLength < 0 {
		return fmt.Errorf("config: SEARCH_MIN_LENGTH must not be negative")
	}
	return nil
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "blogctl", "state.db")
}
