package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"github.com/harshaaa-5/aivy-1/internal/dto"
	"github.com/harshaaa-5/aivy-1/internal/repository"
)

// GET /api/v1/users/{id}
func GetUserHandler(users *repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		user, err := users.FindByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeJSON(w, http.StatusOK, userResponse(user))
	}
}

// GET /api/v1/users/leaderboard?limit=10
func LeaderboardHandler(users *repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 100 {
			limit = 10
		}
		list, err := users.List(limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		out := make([]map[string]interface{}, 0, len(list))
		for i := range list {
			out = append(out, userResponse(&list[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// PUT /api/v1/users/profile
func UpdateProfileHandler(users *repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		var req dto.UpdateProfileRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid profile payload")
			return
		}

		fields := map[string]interface{}{}
		if req.Name != nil {
			fields["name"] = *req.Name
		}
		if req.Avatar != nil {
			fields["avatar"] = *req.Avatar
		}
		if req.Interests != nil {
			fields["interests"] = datatypes.JSON(jsonArray(req.Interests))
		}
		if len(fields) == 0 {
			writeError(w, http.StatusBadRequest, "nothing to update")
			return
		}

		if err := users.UpdateProfile(userID, fields); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		user, err := users.FindByID(userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, userResponse(user))
	}
}
