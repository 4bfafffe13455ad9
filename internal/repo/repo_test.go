package repo

import (
	"CaseNotes/internal/model"
	"fmt"
	"sync/atomic"
	"testing"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

var testDBSeq atomic.Int64

// newTestDB инициализирует изолированный in-memory SQLite (modernc.org/sqlite)
// для тестов репозитория. Имя базы уникально на вызов, чтобы счётчики
// в тестах не пересекались между базами разных тестов.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	// Миграции для всех моделей, используемых в репозиториях
	if err := db.AutoMigrate(&model.User{}, &model.CaseNote{}, &model.Attachment{}); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}
