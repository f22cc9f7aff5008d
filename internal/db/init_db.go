package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/harshaaa-5/aivy-1/config"
	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

// InitDB opens the database and runs migrations. Unlike a package-level
// singleton, the handle is returned so callers own the wiring.
func InitDB(cfg config.Config) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := conn.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, err
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	log.Logger.Info().Str("db", cfg.DBName).Msg("Connected & migrated database")
	return conn, nil
}

// Migrate is split out so tooling can run it against an existing handle.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Subject{},
		&models.Question{},
		&models.StudySession{},
		&models.StudyGroup{},
		&models.GroupMember{},
		&models.GroupMessage{},
	)
}
