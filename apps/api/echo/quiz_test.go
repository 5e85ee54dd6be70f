package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progress-uz/backend/core/quiz"
	"github.com/progress-uz/backend/core/user"
)

func newQuizBody(t *testing.T, lessonID string) []byte {
	t.Helper()
	return marshallObj(t, map[string]interface{}{
		"title":     "Checkpoint",
		"lesson_id": lessonID,
		"questions": []map[string]interface{}{
			{"text": "2 + 2?", "options": []string{"3", "4"}, "correct": 1},
			{"text": "Capital of France?", "options": []string{"Paris", "Lyon", "Nice"}, "correct": 0},
		},
	})
}

func TestQuizCreate(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Student", "stu", "stu@test.uz", "secret123", user.RoleStudent)
	createUser(t, app.usrRepo, "Teacher", "tea", "tea@test.uz", "secret123", user.RoleTeacher)
	studentToken := app.loginToken(t, "stu@test.uz", "secret123")
	teacherToken := app.loginToken(t, "tea@test.uz", "secret123")

	t.Run("student forbidden", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/quizzes", studentToken, newQuizBody(t, "lesson-1"))
		app.do(req, rec)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no questions", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{"title": "Empty", "lesson_id": "lesson-1"})
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/quizzes", teacherToken, body)
		app.do(req, rec)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("correct index out of range", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{
			"title":     "Broken",
			"lesson_id": "lesson-1",
			"questions": []map[string]interface{}{
				{"text": "2 + 2?", "options": []string{"3", "4"}, "correct": 5},
			},
		})
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/quizzes", teacherToken, body)
		app.do(req, rec)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("teacher ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/quizzes", teacherToken, newQuizBody(t, "lesson-1"))
		env := app.do(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var qz quiz.Quiz
		require.NoError(t, unmarshalData(env, "quiz", &qz))
		assert.NotEmpty(t, qz.ID)
		assert.Len(t, qz.Questions, 2)

		// filter by lesson
		req, rec = newRequest(http.MethodGet, "/api/v1/quizzes?lesson=lesson-1")
		env = app.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, env.Results)
		assert.Equal(t, 1, *env.Results)

		req, rec = newRequest(http.MethodGet, "/api/v1/quizzes?lesson=lesson-2")
		env = app.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, env.Results)
		assert.Equal(t, 0, *env.Results)
	})
}

func TestQuizEvaluate(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Teacher", "tea", "tea@test.uz", "secret123", user.RoleTeacher)
	createUser(t, app.usrRepo, "Student", "stu", "stu@test.uz", "secret123", user.RoleStudent)
	teacherToken := app.loginToken(t, "tea@test.uz", "secret123")
	studentToken := app.loginToken(t, "stu@test.uz", "secret123")

	req, rec := newAuthRequest(http.MethodPost, "/api/v1/quizzes", teacherToken, newQuizBody(t, "lesson-1"))
	env := app.do(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var qz quiz.Quiz
	require.NoError(t, unmarshalData(env, "quiz", &qz))

	tests := []struct {
		name     string
		answers  []int
		wantCode int
		want     quiz.Result
	}{
		{name: "all correct", answers: []int{1, 0}, wantCode: http.StatusOK, want: quiz.Result{Total: 2, Correct: 2, Score: 100}},
		{name: "half correct", answers: []int{1, 2}, wantCode: http.StatusOK, want: quiz.Result{Total: 2, Correct: 1, Score: 50}},
		{name: "none correct", answers: []int{0, 1}, wantCode: http.StatusOK, want: quiz.Result{Total: 2, Correct: 0, Score: 0}},
		{name: "incomplete", answers: []int{1}, wantCode: http.StatusBadRequest},
		{name: "too many", answers: []int{1, 0, 0}, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := marshallObj(t, map[string]interface{}{"answers": tt.answers})
			req, rec := newAuthRequest(http.MethodPost, "/api/v1/quizzes/"+qz.ID+"/evaluate", studentToken, body)
			env := app.do(req, rec)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var res quiz.Result
			require.NoError(t, unmarshalData(env, "result", &res))
			assert.Equal(t, tt.want, res)
		})
	}

	t.Run("anonymous cannot evaluate", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{"answers": []int{1, 0}})
		req, rec := newRequest(http.MethodPost, "/api/v1/quizzes/"+qz.ID+"/evaluate", body)
		app.do(req, rec)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown quiz", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{"answers": []int{1, 0}})
		req, rec := newAuthRequest(http.MethodPost, "/api/v1/quizzes/no-such-id/evaluate", studentToken, body)
		app.do(req, rec)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestQuizReplace(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Teacher", "tea", "tea@test.uz", "secret123", user.RoleTeacher)
	token := app.loginToken(t, "tea@test.uz", "secret123")

	req, rec := newAuthRequest(http.MethodPost, "/api/v1/quizzes", token, newQuizBody(t, "lesson-1"))
	env := app.do(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var qz quiz.Quiz
	require.NoError(t, unmarshalData(env, "quiz", &qz))

	body := marshallObj(t, map[string]interface{}{
		"title":     "Replaced",
		"lesson_id": "lesson-1",
		"questions": []map[string]interface{}{
			{"text": "1 + 1?", "options": []string{"2", "11"}, "correct": 0},
		},
	})
	req, rec = newAuthRequest(http.MethodPut, "/api/v1/quizzes/"+qz.ID, token, body)
	env = app.do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, unmarshalData(env, "quiz", &qz))
	assert.Equal(t, "Replaced", qz.Title)
	assert.Len(t, qz.Questions, 1)

	req, rec = newAuthRequest(http.MethodDelete, "/api/v1/quizzes/"+qz.ID, token)
	app.do(req, rec)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
