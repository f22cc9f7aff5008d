package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/harshaaa-5/aivy-1/internal/middlewares"
	"github.com/harshaaa-5/aivy-1/internal/models"
)

func pqArray(values []string) pq.StringArray {
	return pq.StringArray(values)
}

func jsonArray(values []string) []byte {
	b, _ := json.Marshal(values)
	return b
}

// currentUserID pulls the authenticated user's id from the request context.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	claims := middlewares.GetUserClaims(r.Context())
	if claims == nil {
		return uuid.Nil, errors.New("missing user claims")
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errors.New("invalid user id in claims")
	}
	return id, nil
}

func userResponse(u *models.User) map[string]interface{} {
	var interests []string
	if len(u.Interests) > 0 {
		_ = json.Unmarshal(u.Interests, &interests)
	}
	return map[string]interface{}{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"avatar":      u.Avatar,
		"role":        u.Role,
		"interests":   interests,
		"isOnline":    u.IsOnline,
		"lastSeen":    u.LastSeen,
		"studyStreak": u.StudyStreak,
		"totalPoints": u.TotalPoints,
	}
}
