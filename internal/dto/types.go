package dto

import (
	"time"

	"github.com/google/uuid"
)

// ---------- Auth ----------

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Avatar      string    `json:"avatar,omitempty"`
	Role        string    `json:"role"`
	Interests   []string  `json:"interests,omitempty"`
	IsOnline    bool      `json:"isOnline"`
	LastSeen    time.Time `json:"lastSeen"`
	StudyStreak int       `json:"studyStreak"`
	TotalPoints int       `json:"totalPoints"`
}

type UpdateProfileRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Avatar    *string  `json:"avatar"`
	Interests []string `json:"interests"`
}

// ---------- Catalog ----------

type CreateSubjectRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Topics      []string `json:"topics"`
}

type CreateQuestionRequest struct {
	SubjectID    uuid.UUID `json:"subjectId" validate:"required"`
	Topic        string    `json:"topic" validate:"required"`
	Text         string    `json:"text" validate:"required,min=5"`
	Options      []string  `json:"options" validate:"required,min=2,max=6"`
	CorrectIndex int       `json:"correctIndex" validate:"gte=0"`
	Difficulty   string    `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Explanation  string    `json:"explanation"`
}

// ---------- Sessions ----------

type StartSessionRequest struct {
	SubjectID uuid.UUID `json:"subjectId" validate:"required"`
	Mode      string    `json:"mode" validate:"omitempty,oneof=practice review exam"`
}

type SessionProgressRequest struct {
	Progress     float64 `json:"progress" validate:"gte=0,lte=100"`
	Accuracy     float64 `json:"accuracy" validate:"gte=0,lte=100"`
	CorrectCount int     `json:"correctCount" validate:"gte=0"`
	AnsweredCount int    `json:"answeredCount" validate:"gte=0"`
}

// ---------- Groups ----------

type CreateGroupRequest struct {
	Name        string    `json:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description"`
	SubjectID   uuid.UUID `json:"subjectId" validate:"required"`
	MaxMembers  int       `json:"maxMembers" validate:"omitempty,gte=2,lte=100"`
}

type PostMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type GroupMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	GroupID   uuid.UUID `json:"groupId"`
	UserID    uuid.UUID `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ---------- AI (mocked) ----------

type AIGenerateQuestionsRequest struct {
	Subject    string `json:"subject" validate:"required"`
	Topic      string `json:"topic" validate:"required"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Count      int    `json:"count" validate:"omitempty,gte=1,lte=20"`
}

type AIExplainRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type AIStudyPlanRequest struct {
	Subjects    []string `json:"subjects" validate:"required,min=1"`
	HoursPerDay float64  `json:"hoursPerDay" validate:"omitempty,gt=0,lte=16"`
}
