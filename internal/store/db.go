package store

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dcm-project/hosting-adapter-manager/internal/config"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 500 * time.Millisecond

// InitDB opens the configured database, applies pool settings, and runs the
// schema migrations for all models.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Type {
	case "pgsql":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
			cfg.Database.Hostname, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Password, cfg.Database.Name)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.File)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Database.Type)
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logLevel(cfg.Service.LogLevel),
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for every model this service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Adapter{},
		&model.Team{},
		&model.CredentialField{},
		&model.Region{},
		&model.Plan{},
		&model.Spec{},
		&model.SyncRun{},
	); err != nil {
		return fmt.Errorf("run database migrations: %w", err)
	}
	return nil
}

func logLevel(serviceLevel string) logger.LogLevel {
	if serviceLevel == "debug" {
		return logger.Info
	}
	return logger.Warn
}
