package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"github.com/harshaaa-5/aivy-1/internal/dto"
	"github.com/harshaaa-5/aivy-1/internal/models"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

// GET /api/v1/questions?subjectId=&topic=&difficulty=&limit=
func ListQuestionsHandler(questions *repository.QuestionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := repository.QuestionFilter{
			Topic:      r.URL.Query().Get("topic"),
			Difficulty: r.URL.Query().Get("difficulty"),
		}
		if s := r.URL.Query().Get("subjectId"); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid subject id")
				return
			}
			filter.SubjectID = id
		}
		filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

		list, err := questions.List(filter)
		if err != nil {
			log.Logger.Error().Err(err).Msg("questions list failed")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// POST /api/v1/questions
func CreateQuestionHandler(questions *repository.QuestionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		var req dto.CreateQuestionRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid question payload")
			return
		}
		if req.CorrectIndex >= len(req.Options) {
			writeError(w, http.StatusBadRequest, "correctIndex out of range")
			return
		}

		optJSON, _ := json.Marshal(req.Options)
		question := models.Question{
			SubjectID:    req.SubjectID,
			Topic:        req.Topic,
			Text:         req.Text,
			Options:      datatypes.JSON(optJSON),
			CorrectIndex: req.CorrectIndex,
			Difficulty:   req.Difficulty,
			Explanation:  req.Explanation,
			CreatedBy:    userID,
		}
		if err := questions.Create(&question); err != nil {
			log.Logger.Error().Err(err).Msg("question create failed")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		writeJSON(w, http.StatusCreated, question)
	}
}

// GET /api/v1/questions/{id}
func GetQuestionHandler(questions *repository.QuestionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid question id")
			return
		}
		question, err := questions.FindByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		writeJSON(w, http.StatusOK, question)
	}
}
