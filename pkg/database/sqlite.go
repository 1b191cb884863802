package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-almacen/internal/model"
)

// Connect opens (or creates) the local SQLite file and returns the shared
// handle. TranslateError maps the UNIQUE violation on products.code to
// gorm.ErrDuplicatedKey so the repositories can classify it.
func Connect(path string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	// Single desktop user; one connection keeps SQLite writes serialized.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Migrate idempotently ensures the three tables exist.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Product{}, &model.Movement{}, &model.Category{})
}
