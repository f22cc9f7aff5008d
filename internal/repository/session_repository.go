package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(s *models.StudySession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.Create(s).Error
}

func (r *SessionRepository) FindByID(id uuid.UUID) (*models.StudySession, error) {
	var s models.StudySession
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateProgress records partial results mid-session.
func (r *SessionRepository) UpdateProgress(id uuid.UUID, progress, accuracy float64, answered, correct int) error {
	return r.db.Model(&models.StudySession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"progress":       progress,
		"accuracy":       accuracy,
		"question_count": answered,
		"correct_count":  correct,
	}).Error
}

func (r *SessionRepository) Complete(id uuid.UUID, at time.Time) error {
	return r.db.Model(&models.StudySession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"progress":     100.0,
		"completed_at": at,
	}).Error
}

func (r *SessionRepository) ListByUser(userID uuid.UUID, limit int) ([]models.StudySession, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var sessions []models.StudySession
	err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}
