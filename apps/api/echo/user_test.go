package echoapi_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/progress-uz/backend/apps/api/echo"
	"github.com/progress-uz/backend/core/user"
)

func TestUserRegister(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Taken User", "taken", "Taken@test.uz", "secret123", user.RoleStudent)

	tests := []struct {
		name     string
		body     map[string]string
		wantCode int
	}{
		{
			name: "missing fields",
			body: map[string]string{
				"name": "No Email",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "bad email",
			body: map[string]string{
				"name":     "Bad Email",
				"email":    "not-an-email",
				"password": "secret123",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "invalid role",
			body: map[string]string{
				"name":     "Bad Role",
				"email":    "badrole@test.uz",
				"password": "secret123",
				"role":     "superuser",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email is case-insensitive",
			body: map[string]string{
				"name":     "Dup",
				"email":    "TAKEN@test.uz",
				"password": "secret123",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			body: map[string]string{
				"name":     "Dup Uname",
				"username": "Taken",
				"email":    "dupuname@test.uz",
				"password": "secret123",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "weak password",
			body: map[string]string{
				"name":     "Weak",
				"email":    "weak@test.uz",
				"password": "1234567890",
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "password over bcrypt limit",
			body: map[string]string{
				"name":     "Long Pwd",
				"email":    "longpwd@test.uz",
				"password": strings.Repeat("s3cret", 17), // 102 chars
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "ok defaults to student",
			body: map[string]string{
				"name":     "New Student",
				"username": "newstudent",
				"email":    "Student@test.uz",
				"password": "secret123",
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "ok explicit teacher role",
			body: map[string]string{
				"name":     "New Teacher",
				"email":    "teacher2@test.uz",
				"password": "secret123",
				"role":     user.RoleTeacher,
			},
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/v1/users/register", marshallObj(t, tt.body))
			env := app.do(req, rec)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusCreated {
				assert.Equal(t, "fail", env.Status)
				return
			}
			assert.Equal(t, "success", env.Status)
			assert.NotEmpty(t, env.Token)
			assert.NotContains(t, rec.Body.String(), "password")

			var usr user.User
			require.NoError(t, unmarshalData(env, "user", &usr))
			assert.NotEmpty(t, usr.ID)
			assert.Equal(t, strings.ToLower(tt.body["email"]), usr.Email)
			wantRole := tt.body["role"]
			if wantRole == "" {
				wantRole = user.RoleStudent
			}
			assert.Equal(t, wantRole, usr.Role)
		})
	}
}

func TestUserLogin(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Login User", "loginuser", "login@test.uz", "secret123", user.RoleStudent)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantCode   int
	}{
		{name: "by email", identifier: "login@test.uz", password: "secret123", wantCode: http.StatusOK},
		{name: "by email mixed case", identifier: "Login@Test.uz", password: "secret123", wantCode: http.StatusOK},
		{name: "by username", identifier: "loginuser", password: "secret123", wantCode: http.StatusOK},
		{name: "unknown identifier", identifier: "nobody@test.uz", password: "secret123", wantCode: http.StatusUnauthorized},
		{name: "wrong password", identifier: "login@test.uz", password: "wrongpass1", wantCode: http.StatusUnauthorized},
		{name: "missing password", identifier: "login@test.uz", password: "", wantCode: http.StatusBadRequest},
	}

	var failBody string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := marshallObj(t, map[string]string{"email": tt.identifier, "password": tt.password})
			req, rec := newRequest(http.MethodPost, "/api/v1/users/login", body)
			env := app.do(req, rec)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			switch tt.wantCode {
			case http.StatusOK:
				assert.NotEmpty(t, env.Token)
			case http.StatusUnauthorized:
				// unknown identifier and wrong password must be indistinguishable
				if failBody == "" {
					failBody = rec.Body.String()
				} else {
					assert.Equal(t, failBody, rec.Body.String())
				}
				assert.Contains(t, rec.Body.String(), "Incorrect email/username or password")
			}
		})
	}
}

func TestUserLoginAfterRegister(t *testing.T) {
	app := setup(t)

	body := marshallObj(t, map[string]string{
		"name":     "Round Trip",
		"email":    "roundtrip@test.uz",
		"password": "secret123",
	})
	req, rec := newRequest(http.MethodPost, "/api/v1/users/register", body)
	app.do(req, rec)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// wrong password first, then the right one
	body = marshallObj(t, map[string]string{"email": "roundtrip@test.uz", "password": "notitchief"})
	req, rec = newRequest(http.MethodPost, "/api/v1/users/login", body)
	app.do(req, rec)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := app.loginToken(t, "roundtrip@test.uz", "secret123")

	req, rec = newAuthRequest(http.MethodGet, "/api/v1/users/me", token)
	env := app.do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var usr user.User
	require.NoError(t, unmarshalData(env, "user", &usr))
	assert.Equal(t, "roundtrip@test.uz", usr.Email)
}

func TestGoogleLogin(t *testing.T) {
	app := setup(t)
	existing := createUser(t, app.usrRepo, "Linked User", "linked", "linked@test.uz", "secret123", user.RoleTeacher)

	t.Run("verification failure", func(t *testing.T) {
		app.verifier.err = errors.Wrap(user.ErrFederationFailed, "bad credential")
		defer func() { app.verifier.err = nil }()

		body := marshallObj(t, map[string]string{"token": "bad-token"})
		req, rec := newRequest(http.MethodPost, "/api/v1/users/google-login", body)
		app.do(req, rec)

		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Google login failed")
	})

	t.Run("missing token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/v1/users/google-login", marshallObj(t, map[string]string{}))
		app.do(req, rec)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		// the message is a translated field map, not a raw validator string
		assert.Contains(t, rec.Body.String(), `"token":"this field is required"`)
		assert.NotContains(t, rec.Body.String(), "googleLoginRequest")
	})

	t.Run("creates new student", func(t *testing.T) {
		app.verifier.claims = user.FederatedClaims{
			Subject: "google-sub-1",
			Name:    "Fresh Face",
			Email:   "fresh@test.uz",
			Picture: "https://pics.test/fresh.png",
		}

		body := marshallObj(t, map[string]string{"token": "good-token"})
		req, rec := newRequest(http.MethodPost, "/api/v1/users/google-login", body)
		env := app.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, env.Token)

		var usr user.User
		require.NoError(t, unmarshalData(env, "user", &usr))
		assert.Equal(t, user.RoleStudent, usr.Role)
		assert.Equal(t, "google-sub-1", usr.GoogleID)

		// the random local password is unguessable
		stored, err := app.usrRepo.GetUserByEmail(context.Background(), "fresh@test.uz")
		require.NoError(t, err)
		assert.Error(t, stored.CheckPassword(""))
	})

	t.Run("links existing account by email", func(t *testing.T) {
		app.verifier.claims = user.FederatedClaims{
			Subject: "google-sub-2",
			Name:    "Someone Else",
			Email:   "LINKED@test.uz",
			Picture: "https://pics.test/linked.png",
		}

		body := marshallObj(t, map[string]string{"token": "good-token"})
		req, rec := newRequest(http.MethodPost, "/api/v1/users/google-login", body)
		app.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		stored, err := app.usrRepo.GetUserByID(context.Background(), existing.ID)
		require.NoError(t, err)
		assert.Equal(t, "google-sub-2", stored.GoogleID)
		assert.Equal(t, user.RoleTeacher, stored.Role) // role untouched
		assert.NoError(t, stored.CheckPassword("secret123"))

		// a second login with a different subject never overwrites the link
		app.verifier.claims.Subject = "google-sub-3"
		req, rec = newRequest(http.MethodPost, "/api/v1/users/google-login", body)
		app.do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)

		stored, err = app.usrRepo.GetUserByID(context.Background(), existing.ID)
		require.NoError(t, err)
		assert.Equal(t, "google-sub-2", stored.GoogleID)
	})
}

func TestUserUpdatePassword(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Pwd User", "pwduser", "pwd@test.uz", "secret123", user.RoleStudent)
	token := app.loginToken(t, "pwd@test.uz", "secret123")

	t.Run("wrong current password", func(t *testing.T) {
		body := marshallObj(t, map[string]string{
			"passwordCurrent": "nope-nope",
			"password":        "m0resecret",
			"passwordConfirm": "m0resecret",
		})
		req, rec := newAuthRequest(http.MethodPatch, "/api/v1/users/update-password", token, body)
		app.do(req, rec)

		require.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Your current password is wrong")
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		body := marshallObj(t, map[string]string{
			"passwordCurrent": "secret123",
			"password":        "m0resecret",
			"passwordConfirm": "different1",
		})
		req, rec := newAuthRequest(http.MethodPatch, "/api/v1/users/update-password", token, body)
		app.do(req, rec)
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("ok", func(t *testing.T) {
		body := marshallObj(t, map[string]string{
			"passwordCurrent": "secret123",
			"password":        "m0resecret",
			"passwordConfirm": "m0resecret",
		})
		req, rec := newAuthRequest(http.MethodPatch, "/api/v1/users/update-password", token, body)
		env := app.do(req, rec)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.NotEmpty(t, env.Token)

		// old password is gone, new one works
		req, rec = newRequest(http.MethodPost, "/api/v1/users/login",
			marshallObj(t, map[string]string{"email": "pwd@test.uz", "password": "secret123"}))
		app.do(req, rec)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		app.loginToken(t, "pwd@test.uz", "m0resecret")

		// tokens are stateless; the pre-change token still authenticates
		req, rec = newAuthRequest(http.MethodGet, "/api/v1/users/me", token)
		app.do(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestUserList(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Student", "student1", "student1@test.uz", "secret123", user.RoleStudent)
	createUser(t, app.usrRepo, "Admin", "admin1", "admin1@test.uz", "secret123", user.RoleAdmin)

	studentToken := app.loginToken(t, "student1@test.uz", "secret123")
	adminToken := app.loginToken(t, "admin1@test.uz", "secret123")

	tests := []struct {
		name     string
		token    string
		wantCode int
	}{
		{name: "anonymous", token: "", wantCode: http.StatusUnauthorized},
		{name: "garbage token", token: "not.a.token", wantCode: http.StatusUnauthorized},
		{name: "student forbidden", token: studentToken, wantCode: http.StatusForbidden},
		{name: "admin ok", token: adminToken, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/v1/users", tt.token)
			env := app.do(req, rec)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusOK {
				require.NotNil(t, env.Results)
				assert.Equal(t, 2, *env.Results)
				assert.NotContains(t, rec.Body.String(), "password")
			}
		})
	}
}

func TestTokenExpiry(t *testing.T) {
	app := setup(t)
	createUser(t, app.usrRepo, "Expiring", "expiring", "expiring@test.uz", "secret123", user.RoleStudent)

	issuedAt := time.Now().UTC()
	echoapi.NowFunc = func() time.Time { return issuedAt }
	defer func() { echoapi.NowFunc = time.Now }()

	token := app.loginToken(t, "expiring@test.uz", "secret123")

	req, rec := newAuthRequest(http.MethodGet, "/api/v1/users/me", token)
	app.do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// jump past the expiration delta
	echoapi.NowFunc = func() time.Time { return issuedAt.Add(91 * 24 * time.Hour) }

	req, rec = newAuthRequest(http.MethodGet, "/api/v1/users/me", token)
	app.do(req, rec)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}
