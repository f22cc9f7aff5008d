package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

type SubjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) Create(s *models.Subject) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.Create(s).Error
}

func (r *SubjectRepository) FindByID(id uuid.UUID) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.Where("id = ?", id).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepository) FindByName(name string) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.Where("name = ?", name).First(&subject).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *SubjectRepository) List() ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Update(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&models.Subject{}).Where("id = ?", id).Updates(fields).Error
}

func (r *SubjectRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Subject{}).Error
}
