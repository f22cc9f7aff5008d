package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/harshaaa-5/aivy-1/internal/dto"
	"github.com/harshaaa-5/aivy-1/internal/repository"
	"github.com/harshaaa-5/aivy-1/internal/services"
	"github.com/harshaaa-5/aivy-1/pkg/log"
)

// POST /api/v1/ai/questions
//
// Generates templated questions. When ?save=true and the subject exists, the
// batch is persisted so it shows up in the regular question list.
func AIGenerateQuestionsHandler(ai *services.AIService, subjects *repository.SubjectRepository, questions *repository.QuestionRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.AIGenerateQuestionsRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid generation payload")
			return
		}

		subjectID := uuid.Nil
		if subject, err := subjects.FindByName(req.Subject); err == nil {
			subjectID = subject.ID
		}

		generated := ai.GenerateQuestions(subjectID, req.Subject, req.Topic, req.Difficulty, req.Count)

		if r.URL.Query().Get("save") == "true" {
			if subjectID == uuid.Nil {
				writeError(w, http.StatusBadRequest, "unknown subject, cannot save")
				return
			}
			if err := questions.CreateBatch(generated); err != nil {
				log.Logger.Error().Err(err).Msg("persisting generated questions failed")
				writeError(w, http.StatusInternalServerError, "server error")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"questions": generated})
	}
}

// POST /api/v1/ai/explain
func AIExplainHandler(ai *services.AIService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.AIExplainRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid explain payload")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"explanation": ai.ExplainAnswer(req.Question, req.Answer),
		})
	}
}

// POST /api/v1/ai/study-plan
func AIStudyPlanHandler(ai *services.AIService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.AIStudyPlanRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid study-plan payload")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"plan": ai.StudyPlan(req.Subjects, req.HoursPerDay),
		})
	}
}
