package repository

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"samurai/internal/app/ds"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return NewWithDB(db)
}

// NewWithDB оборачивает готовое соединение (используется в тестах)
func NewWithDB(db *gorm.DB) (*Repository, error) {
	// Автоматическая миграция всех таблиц
	err := db.AutoMigrate(
		&ds.User{},
		&ds.SoftwareAsset{},
		&ds.UsageRecord{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}
