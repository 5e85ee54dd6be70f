package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuiz() Quiz {
	return Quiz{
		Questions: []Question{
			{Text: "2 + 2?", Options: []string{"3", "4"}, Correct: 1},
			{Text: "3 * 3?", Options: []string{"9", "6", "33"}, Correct: 0},
			{Text: "10 / 2?", Options: []string{"2", "5"}, Correct: 1},
		},
	}
}

func TestQuizEvaluate(t *testing.T) {
	qz := sampleQuiz()

	tests := []struct {
		name    string
		answers []int
		want    Result
		wantErr error
	}{
		{name: "all correct", answers: []int{1, 0, 1}, want: Result{Total: 3, Correct: 3, Score: 100}},
		{name: "two of three", answers: []int{1, 0, 0}, want: Result{Total: 3, Correct: 2, Score: 66}},
		{name: "none", answers: []int{0, 1, 0}, want: Result{Total: 3}},
		{name: "out of range answers count as wrong", answers: []int{7, -1, 1}, want: Result{Total: 3, Correct: 1, Score: 33}},
		{name: "too few", answers: []int{1}, wantErr: ErrIncompleteAnswers},
		{name: "too many", answers: []int{1, 0, 1, 0}, wantErr: ErrIncompleteAnswers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := qz.Evaluate(tt.answers)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestQuizEvaluateEmpty(t *testing.T) {
	var qz Quiz
	res, err := qz.Evaluate(nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestNewQuizValidate(t *testing.T) {
	valid := func() NewQuiz {
		return NewQuiz{
			Title:    "Checkpoint",
			LessonID: "lesson-1",
			Questions: []Question{
				{Text: "2 + 2?", Options: []string{"3", "4"}, Correct: 1},
			},
		}
	}

	t.Run("ok", func(t *testing.T) {
		nq := valid()
		assert.NoError(t, nq.Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		nq := valid()
		nq.Title = ""
		assert.Error(t, nq.Validate())
	})

	t.Run("no questions", func(t *testing.T) {
		nq := valid()
		nq.Questions = nil
		assert.Error(t, nq.Validate())
	})

	t.Run("single option", func(t *testing.T) {
		nq := valid()
		nq.Questions[0].Options = []string{"4"}
		assert.Error(t, nq.Validate())
	})

	t.Run("correct index out of range", func(t *testing.T) {
		nq := valid()
		nq.Questions[0].Correct = 2
		assert.Error(t, nq.Validate())

		nq = valid()
		nq.Questions[0].Correct = -1
		assert.Error(t, nq.Validate())
	})
}
