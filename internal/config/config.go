package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database *DBConfig
	Service  *ServiceConfig
	Sync     *SyncConfig
	AutoSync *AutoSyncConfig
}

type DBConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"hosting-adapter"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASS"`
	// File is the database path for the sqlite type.
	File            string        `envconfig:"DB_FILE" default:"hosting-adapter.db"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

type ServiceConfig struct {
	Address  string `envconfig:"SVC_ADDRESS" default:":8080"`
	LogLevel string `envconfig:"SVC_LOG_LEVEL" default:"info"`
	Env      string `envconfig:"SVC_ENV" default:"production"`
}

// SyncConfig controls the outbound catalog client. Catalog builds are slow on
// some providers, so the catalog fetch gets a much longer deadline than the
// metadata probe.
type SyncConfig struct {
	MetaTimeout    time.Duration `envconfig:"SYNC_META_TIMEOUT" default:"10s"`
	CatalogTimeout time.Duration `envconfig:"SYNC_CATALOG_TIMEOUT" default:"5m"`
	UserAgent      string        `envconfig:"SYNC_USER_AGENT" default:"hosting-adapter-manager"`
}

type AutoSyncConfig struct {
	Enabled                bool          `envconfig:"AUTOSYNC_ENABLED" default:"true"`
	Interval               time.Duration `envconfig:"AUTOSYNC_INTERVAL" default:"1m"`
	SyncEvery              time.Duration `envconfig:"AUTOSYNC_SYNC_EVERY" default:"6h"`
	MaxConsecutiveFailures int           `envconfig:"AUTOSYNC_MAX_CONSECUTIVE_FAILURES" default:"3"`
	BaseBackoffInterval    time.Duration `envconfig:"AUTOSYNC_BASE_BACKOFF" default:"10m"`
	MaxBackoffInterval     time.Duration `envconfig:"AUTOSYNC_MAX_BACKOFF" default:"24h"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	if cfg.Database.Type != "pgsql" && cfg.Database.Type != "sqlite" {
		log.Printf("WARNING: invalid DB_TYPE %q, defaulting to sqlite", cfg.Database.Type)
		cfg.Database.Type = "sqlite"
	}
	return cfg, nil
}
