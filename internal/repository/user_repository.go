package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Email is normalized before insert.
func (r *UserRepository) Create(u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return r.db.Create(u).Error
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial update of mutable profile fields.
func (r *UserRepository) UpdateProfile(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// List returns users ordered by points, for leaderboards.
func (r *UserRepository) List(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("total_points DESC").Limit(limit).Find(&users).Error
	return users, err
}

// ------------------------------------------------------------------
// realtime.UserStatusStore implementation
// ------------------------------------------------------------------

func (r *UserRepository) SetOnline(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"is_online": true, "last_seen": at}).Error
}

func (r *UserRepository) SetOffline(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"is_online": false, "last_seen": at}).Error
}
