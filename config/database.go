package config

import (
	"fmt"

	"github.com/andrewpaige1/lingodeck-api/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured database and migrates every table.
func Connect(env Environment) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch env.DBDriver {
	case "postgres":
		dialector = postgres.Open(env.DBURL)
	case "sqlite":
		dialector = sqlite.Open(env.DBURL)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}

	cfg := &gorm.Config{}
	if !env.IsDevelopment {
		cfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto migrate database: %w", err)
	}
	return nil
}

// OpenTestDB returns a migrated in-memory sqlite database. Each call gets
// its own database.
func OpenTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// a single connection keeps the in-memory database alive and shared
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, Migrate(db)
}
