package quiz

import (
	"time"

	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core"
)

var ErrIncompleteAnswers = errors.New("every question must be answered")

type Question struct {
	Text    string   `json:"text" validate:"required"`
	Options []string `json:"options" validate:"min=2,dive,required"`
	Correct int      `json:"correct"` // index into Options
}

type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	LessonID  string     `json:"lesson_id"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Result is the outcome of grading a submission.
type Result struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Score   int `json:"score"` // percentage, rounded down
}

// Evaluate grades one answer index per question.
func (q *Quiz) Evaluate(answers []int) (Result, error) {
	if len(answers) != len(q.Questions) {
		return Result{}, ErrIncompleteAnswers
	}
	res := Result{Total: len(q.Questions)}
	for i, qn := range q.Questions {
		if answers[i] == qn.Correct {
			res.Correct++
		}
	}
	if res.Total > 0 {
		res.Score = res.Correct * 100 / res.Total
	}
	return res, nil
}

type NewQuiz struct {
	Title     string     `json:"title" validate:"required"`
	LessonID  string     `json:"lesson_id" validate:"required"`
	Questions []Question `json:"questions" validate:"required,min=1,dive"`
}

func (nq *NewQuiz) Validate() error {
	nq.Title = core.CleanString(nq.Title)
	if err := core.Validate.Struct(nq); err != nil {
		return core.NewValidationError(err)
	}
	for i, qn := range nq.Questions {
		if qn.Correct < 0 || qn.Correct >= len(qn.Options) {
			return core.NewValidationError(nil, core.FieldError{
				Field: "questions",
				Error: "correct answer index out of range for question " + qn.Text,
			})
		}
		nq.Questions[i].Text = core.CleanString(qn.Text)
	}
	return nil
}

type Submission struct {
	Answers []int `json:"answers" validate:"required"`
}

func (s *Submission) Validate() error {
	if err := core.Validate.Struct(s); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}
