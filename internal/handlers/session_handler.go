package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/harshaaa-5/aivy-1/internal/dto"
	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

// POST /api/v1/sessions
func StartSessionHandler(sessions *repository.SessionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		var req dto.StartSessionRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid session payload")
			return
		}
		mode := req.Mode
		if mode == "" {
			mode = "practice"
		}

		session := models.StudySession{
			UserID:    userID,
			SubjectID: req.SubjectID,
			Mode:      mode,
		}
		if err := sessions.Create(&session); err != nil {
			log.Logger.Error().Err(err).Msg("session create failed")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusCreated, session)
	}
}

// PUT /api/v1/sessions/{id}/progress
func SessionProgressHandler(sessions *repository.SessionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid session id")
			return
		}

		session, err := sessions.FindByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if session.UserID != userID {
			writeError(w, http.StatusForbidden, "not your session")
			return
		}

		var req dto.SessionProgressRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid progress payload")
			return
		}

		if err := sessions.UpdateProgress(id, req.Progress, req.Accuracy, req.AnsweredCount, req.CorrectCount); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/v1/sessions/{id}/complete
func CompleteSessionHandler(sessions *repository.SessionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid session id")
			return
		}

		session, err := sessions.FindByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if session.UserID != userID {
			writeError(w, http.StatusForbidden, "not your session")
			return
		}

		if err := sessions.Complete(id, time.Now()); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/v1/sessions?limit=
func ListSessionsHandler(sessions *repository.SessionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := sessions.ListByUser(userID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
