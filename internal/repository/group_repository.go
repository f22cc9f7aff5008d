package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

var (
	ErrGroupFull  = errors.New("study group is full")
	ErrNotAMember = errors.New("user is not a member of this group")
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts the group and its owner membership together.
func (r *GroupRepository) Create(g *models.StudyGroup) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		member := models.GroupMember{GroupID: g.ID, UserID: g.OwnerID, Role: "owner"}
		return tx.Create(&member).Error
	})
}

func (r *GroupRepository) FindByID(id uuid.UUID) (*models.StudyGroup, error) {
	var g models.StudyGroup
	if err := r.db.Preload("Members").Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) List(limit int) ([]models.StudyGroup, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var groups []models.StudyGroup
	err := r.db.Preload("Members").Order("created_at DESC").Limit(limit).Find(&groups).Error
	return groups, err
}

// AddMember joins a user to a group, enforcing the member cap. Joining twice
// is a no-op.
func (r *GroupRepository) AddMember(groupID, userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var g models.StudyGroup
		if err := tx.Where("id = ?", groupID).First(&g).Error; err != nil {
			return err
		}

		var existing models.GroupMember
		err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).First(&existing).Error
		if err == nil {
			return nil // already a member
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&models.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
			return err
		}
		if g.MaxMembers > 0 && count >= int64(g.MaxMembers) {
			return ErrGroupFull
		}

		member := models.GroupMember{GroupID: groupID, UserID: userID, Role: "member"}
		return tx.Create(&member).Error
	})
}

func (r *GroupRepository) RemoveMember(groupID, userID uuid.UUID) error {
	return r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{}).Error
}

func (r *GroupRepository) IsMember(groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).Count(&count).Error
	return count > 0, err
}

// ------------------------------------------------------------------
// Group chat messages
// ------------------------------------------------------------------

func (r *GroupRepository) CreateMessage(m *models.GroupMessage) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return r.db.Create(m).Error
}

func (r *GroupRepository) ListMessages(groupID uuid.UUID, limit int) ([]models.GroupMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var messages []models.GroupMessage
	err := r.db.Where("group_id = ?", groupID).
		Order("created_at DESC").Limit(limit).Find(&messages).Error
	return messages, err
}
