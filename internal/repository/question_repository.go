package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

type QuestionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(q *models.Question) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return r.db.Create(q).Error
}

// CreateBatch inserts a set of questions in one transaction. Used by the AI
// generator when a caller asks to keep generated questions.
func (r *QuestionRepository) CreateBatch(qs []models.Question) error {
	if len(qs) == 0 {
		return nil
	}
	for i := range qs {
		if qs[i].ID == uuid.Nil {
			qs[i].ID = uuid.New()
		}
	}
	return r.db.Create(&qs).Error
}

func (r *QuestionRepository) FindByID(id uuid.UUID) (*models.Question, error) {
	var q models.Question
	if err := r.db.Where("id = ?", id).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

type QuestionFilter struct {
	SubjectID  uuid.UUID
	Topic      string
	Difficulty string
	Limit      int
}

func (r *QuestionRepository) List(f QuestionFilter) ([]models.Question, error) {
	query := r.db.Model(&models.Question{})
	if f.SubjectID != uuid.Nil {
		query = query.Where("subject_id = ?", f.SubjectID)
	}
	if f.Topic != "" {
		query = query.Where("topic = ?", f.Topic)
	}
	if f.Difficulty != "" {
		query = query.Where("difficulty = ?", f.Difficulty)
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var questions []models.Question
	err := query.Order("created_at DESC").Limit(limit).Find(&questions).Error
	return questions, err
}
