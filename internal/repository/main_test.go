package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

// newTestDB opens a fresh in-memory database per test. Subjects get a hand
// written table because text[] columns do not automigrate on sqlite; the
// array round-trips through a plain text column.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.StudySession{},
		&models.StudyGroup{},
		&models.GroupMember{},
		&models.GroupMessage{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	err = db.Exec(`CREATE TABLE subjects (
		id text PRIMARY KEY,
		name text UNIQUE,
		description text,
		icon text,
		color text,
		topics text,
		created_at datetime,
		updated_at datetime
	)`).Error
	if err != nil {
		t.Fatalf("create subjects table: %v", err)
	}

	return db
}
