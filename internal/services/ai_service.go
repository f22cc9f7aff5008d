package services

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/harshaaa-5/aivy-1/internal/models"
)

// AIService produces mocked AI responses from randomized templates. There is
// no model behind it; answers are deterministic in shape, random in wording.
type AIService struct {
	rng *rand.Rand
}

func NewAIService() *AIService {
	return &AIService{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

var questionTemplates = []string{
	"Which of the following best describes %s in %s?",
	"What is the primary purpose of %s within %s?",
	"In the context of %s, which statement about %s is correct?",
	"How does %s relate to the core ideas of %s?",
}

var optionTemplates = []string{
	"It defines the foundational principle",
	"It is an advanced application of the concept",
	"It contradicts the standard interpretation",
	"It is unrelated to the topic",
}

var explanationTemplates = []string{
	"The answer %q follows directly from the definition of the concept in %s.",
	"%q is correct because it captures the key property the question asks about.",
	"Working through the problem step by step leads to %q as the only consistent choice.",
}

var tipTemplates = []string{
	"Review %s with spaced repetition: short daily passes beat one long cram.",
	"Practice %s problems before re-reading notes; retrieval strengthens memory.",
	"Teach %s to someone else (or an empty chair) to expose gaps.",
	"Alternate %s with a contrasting subject to keep focus fresh.",
}

// GenerateQuestions builds count templated questions for the subject/topic.
// They are marked Generated so callers can distinguish them from curated ones.
func (s *AIService) GenerateQuestions(subjectID uuid.UUID, subject, topic, difficulty string, count int) []models.Question {
	if count <= 0 {
		count = 5
	}
	if difficulty == "" {
		difficulty = "medium"
	}

	questions := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		tmpl := questionTemplates[s.rng.Intn(len(questionTemplates))]

		opts := make([]string, len(optionTemplates))
		copy(opts, optionTemplates)
		s.rng.Shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
		correct := s.rng.Intn(len(opts))

		optJSON, _ := json.Marshal(opts)
		questions = append(questions, models.Question{
			ID:           uuid.New(),
			SubjectID:    subjectID,
			Topic:        topic,
			Text:         fmt.Sprintf(tmpl, topic, subject),
			Options:      datatypes.JSON(optJSON),
			CorrectIndex: correct,
			Difficulty:   difficulty,
			Explanation:  fmt.Sprintf(explanationTemplates[s.rng.Intn(len(explanationTemplates))], opts[correct], subject),
			Generated:    true,
		})
	}
	return questions
}

// ExplainAnswer returns a templated explanation for a question/answer pair.
func (s *AIService) ExplainAnswer(question, answer string) string {
	tmpl := explanationTemplates[s.rng.Intn(len(explanationTemplates))]
	subject := question
	if len(subject) > 60 {
		subject = subject[:60] + "…"
	}
	return fmt.Sprintf(tmpl, answer, subject)
}

type StudyPlanDay struct {
	Day      string   `json:"day"`
	Subjects []string `json:"subjects"`
	Hours    float64  `json:"hours"`
	Tip      string   `json:"tip"`
}

// StudyPlan distributes the requested subjects across a week with a random
// tip per day.
func (s *AIService) StudyPlan(subjects []string, hoursPerDay float64) []StudyPlanDay {
	if hoursPerDay <= 0 {
		hoursPerDay = 2
	}
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	plan := make([]StudyPlanDay, 0, len(days))
	for i, day := range days {
		subj := subjects[i%len(subjects)]
		next := subjects[(i+1)%len(subjects)]
		daySubjects := []string{subj}
		if next != subj {
			daySubjects = append(daySubjects, next)
		}
		plan = append(plan, StudyPlanDay{
			Day:      day,
			Subjects: daySubjects,
			Hours:    hoursPerDay,
			Tip:      fmt.Sprintf(tipTemplates[s.rng.Intn(len(tipTemplates))], strings.Join(daySubjects, " and ")),
		})
	}
	return plan
}
