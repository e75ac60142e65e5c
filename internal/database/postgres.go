package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladimiradmaev/diabetes-care/internal/config"
	"github.com/vladimiradmaev/diabetes-care/internal/database/migrations"
	"github.com/vladimiradmaev/diabetes-care/internal/logger"
)

// DSN builds the postgres connection string
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// tables first; the SQL migrations add indexes on top of them
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	registry := migrations.NewRegistry()
	if err := registry.LoadSQL(migrations.Embedded(), "sql"); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := registry.Run(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}
