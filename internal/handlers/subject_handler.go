package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/harshaaa-5/aivy-1/internal/dto"
	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

// GET /api/v1/subjects
func ListSubjectsHandler(subjects *repository.SubjectRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := subjects.List()
		if err != nil {
			log.Logger.Error().Err(err).Msg("subjects list failed")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /api/v1/subjects
func CreateSubjectHandler(subjects *repository.SubjectRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateSubjectRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid subject payload")
			return
		}

		subject := models.Subject{
			Name:        req.Name,
			Description: req.Description,
			Icon:        req.Icon,
			Color:       req.Color,
			Topics:      pqArray(req.Topics),
		}
		if err := subjects.Create(&subject); err != nil {
			log.Logger.Error().Err(err).Msg("subject create failed")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusCreated, subject)
	}
}

// GET /api/v1/subjects/{id}
func GetSubjectHandler(subjects *repository.SubjectRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid subject id")
			return
		}
		subject, err := subjects.FindByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		writeJSON(w, http.StatusOK, subject)
	}
}

// PUT /api/v1/subjects/{id}
func UpdateSubjectHandler(subjects *repository.SubjectRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid subject id")
			return
		}

		var req dto.CreateSubjectRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid subject payload")
			return
		}

		fields := map[string]interface{}{
			"name":        req.Name,
			"description": req.Description,
			"icon":        req.Icon,
			"color":       req.Color,
			"topics":      pqArray(req.Topics),
		}
		if err := subjects.Update(id, fields); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		subject, err := subjects.FindByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "subject not found")
			return
		}
		writeJSON(w, http.StatusOK, subject)
	}
}

// DELETE /api/v1/subjects/{id}
func DeleteSubjectHandler(subjects *repository.SubjectRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid subject id")
			return
		}
		if err := subjects.Delete(id); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
