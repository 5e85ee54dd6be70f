package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progress-uz/backend/core/lesson"
	"github.com/progress-uz/backend/core/user"
)

func TestDashboardStats(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Student A", "stua", "stua@test.uz", "secret123", user.RoleStudent)
	createUser(t, app.usrRepo, "Student B", "stub", "stub@test.uz", "secret123", user.RoleStudent)
	createUser(t, app.usrRepo, "Teacher", "tea", "tea@test.uz", "secret123", user.RoleTeacher)
	createUser(t, app.usrRepo, "Admin", "boss", "boss@test.uz", "secret123", user.RoleAdmin)

	studentToken := app.loginToken(t, "stua@test.uz", "secret123")
	teacherToken := app.loginToken(t, "tea@test.uz", "secret123")
	adminToken := app.loginToken(t, "boss@test.uz", "secret123")

	req, rec := newAuthRequest(http.MethodPost, "/api/v1/lessons", teacherToken, newLessonBody(t, "Counted", lesson.CategoryOther))
	app.do(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("admin only", func(t *testing.T) {
		for _, token := range []string{"", studentToken, teacherToken} {
			req, rec := newAuthRequest(http.MethodGet, "/api/v1/dashboard/stats", token)
			app.do(req, rec)
			if token == "" {
				assert.Equal(t, http.StatusUnauthorized, rec.Code)
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code)
			}
		}
	})

	t.Run("counts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/api/v1/dashboard/stats", adminToken)
		env := app.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var stats struct {
			Users     int            `json:"users"`
			Roles     map[string]int `json:"roles"`
			Lessons   int            `json:"lessons"`
			Posts     int            `json:"posts"`
			Resources int            `json:"resources"`
		}
		raw, ok := env.Data["stats"]
		require.True(t, ok, rec.Body.String())
		require.NoError(t, json.Unmarshal(raw, &stats))

		assert.Equal(t, 4, stats.Users)
		assert.Equal(t, 2, stats.Roles[user.RoleStudent])
		assert.Equal(t, 1, stats.Roles[user.RoleTeacher])
		assert.Equal(t, 1, stats.Roles[user.RoleAdmin])
		assert.Equal(t, 1, stats.Lessons)
		assert.Equal(t, 0, stats.Posts)
		assert.Equal(t, 0, stats.Resources)
	})
}
