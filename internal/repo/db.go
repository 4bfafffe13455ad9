package repo

import (
	"CaseNotes/internal/model"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает соединение с Postgres и прогоняет миграции моделей.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("repo: open database: %w", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.CaseNote{}, &model.Attachment{}); err != nil {
		return nil, fmt.Errorf("repo: automigrate: %w", err)
	}
	return db, nil
}
