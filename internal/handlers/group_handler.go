package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/harshaaa-5/aivy-1/internal/dto"
	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/harshaaa-5/aivy-1/internal/services"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

// GET /api/v1/groups
func ListGroupsHandler(groups *repository.GroupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := groups.List(limit)
		if err != nil {
			log.Logger.Error().Err(err).Msg("groups list failed")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /api/v1/groups
func CreateGroupHandler(svc *services.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		var req dto.CreateGroupRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid group payload")
			return
		}
		maxMembers := req.MaxMembers
		if maxMembers == 0 {
			maxMembers = 20
		}

		group := models.StudyGroup{
			Name:        req.Name,
			Description: req.Description,
			SubjectID:   req.SubjectID,
			OwnerID:     userID,
			MaxMembers:  maxMembers,
		}
		if err := svc.Create(r.Context(), &group); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusCreated, group)
	}
}

// GET /api/v1/groups/{id}
func GetGroupHandler(groups *repository.GroupRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid group id")
			return
		}
		group, err := groups.FindByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		writeJSON(w, http.StatusOK, group)
	}
}

// POST /api/v1/groups/{id}/join
func JoinGroupHandler(svc *services.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid group id")
			return
		}

		if err := svc.Join(r.Context(), id, userID); err != nil {
			if errors.Is(err, repository.ErrGroupFull) {
				writeError(w, http.StatusConflict, "group is full")
				return
			}
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/v1/groups/{id}/leave
func LeaveGroupHandler(svc *services.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid group id")
			return
		}
		if err := svc.Leave(r.Context(), id, userID); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/v1/groups/{id}/messages?limit=
func ListGroupMessagesHandler(svc *services.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid group id")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := svc.Messages(r.Context(), id, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /api/v1/groups/{id}/messages
func PostGroupMessageHandler(svc *services.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid group id")
			return
		}

		var req dto.PostMessageRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid message payload")
			return
		}

		msg := models.GroupMessage{GroupID: id, UserID: userID, Content: req.Content}
		if err := svc.PostMessage(r.Context(), &msg); err != nil {
			if errors.Is(err, repository.ErrNotAMember) {
				writeError(w, http.StatusForbidden, "not a group member")
				return
			}
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}
