package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// -------------------------------
// Users
// -------------------------------

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:text"`
	Email        string    `gorm:"type:text;uniqueIndex"`
	PasswordHash string    `gorm:"type:text"`
	Avatar       string    `gorm:"type:text"`
	Role         string    `gorm:"type:varchar(20);default:'student'"` // student, tutor, admin
	Interests    datatypes.JSON `gorm:"type:jsonb"` // array of topic strings

	IsOnline bool      `gorm:"default:false"`
	LastSeen time.Time `gorm:"autoUpdateTime"`

	StudyStreak int `gorm:"default:0"`
	TotalPoints int `gorm:"default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// -------------------------------
// Catalog
// -------------------------------

type Subject struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name        string         `gorm:"type:text;uniqueIndex"`
	Description string         `gorm:"type:text"`
	Icon        string         `gorm:"type:text"`
	Color       string         `gorm:"type:varchar(20)"`
	Topics      pq.StringArray `gorm:"type:text[]"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}

type Question struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SubjectID    uuid.UUID      `gorm:"type:uuid;index"`
	Topic        string         `gorm:"type:text;index"`
	Text         string         `gorm:"type:text"`
	Options      datatypes.JSON `gorm:"type:jsonb"` // array of answer strings
	CorrectIndex int            `gorm:"type:int"`
	Difficulty   string         `gorm:"type:varchar(10);index"` // easy, medium, hard
	Explanation  string         `gorm:"type:text"`
	Generated    bool           `gorm:"default:false"` // true when produced by the AI mock
	CreatedBy    uuid.UUID      `gorm:"type:uuid"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

// -------------------------------
// Study sessions
// -------------------------------

type StudySession struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;index"`
	SubjectID     uuid.UUID `gorm:"type:uuid;index"`
	Mode          string    `gorm:"type:varchar(20);default:'practice'"` // practice, review, exam
	Progress      float64   `gorm:"type:float;default:0"`                // 0..100
	Accuracy      float64   `gorm:"type:float;default:0"`                // 0..100
	QuestionCount int       `gorm:"type:int;default:0"`
	CorrectCount  int       `gorm:"type:int;default:0"`
	StartedAt     time.Time `gorm:"autoCreateTime"`
	CompletedAt   *time.Time
}

// -------------------------------
// Study groups & chat
// -------------------------------

type StudyGroup struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:text"`
	Description string    `gorm:"type:text"`
	SubjectID   uuid.UUID `gorm:"type:uuid;index"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index"`
	MaxMembers  int       `gorm:"default:20"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Members []GroupMember `gorm:"foreignKey:GroupID"`
}

type GroupMember struct {
	GroupID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role     string    `gorm:"type:varchar(20);default:'member'"` // owner, member
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

type GroupMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `gorm:"type:uuid;index"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Content   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
