package user

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	passwords := map[string]string{
		"simple":  "secret123",
		"spaces":  "pa55word with spaces",
		"unicode": "пароль-юникод",
		"long":    strings.Repeat("x", 70), // near the bcrypt input limit
	}
	for name, pwd := range passwords {
		pwd := pwd
		t.Run(name, func(t *testing.T) {
			var usr User
			require.NoError(t, usr.SetPassword(pwd))

			assert.NoError(t, usr.CheckPassword(pwd))
			assert.Error(t, usr.CheckPassword(pwd+"x"))
			assert.Error(t, usr.CheckPassword(""))
		})
	}

	t.Run("hashes are salted", func(t *testing.T) {
		var a, b User
		require.NoError(t, a.SetPassword("secret123"))
		require.NoError(t, b.SetPassword("secret123"))
		assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
	})
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	usr := User{ID: "u1", Name: "Jane", Email: "jane@test.uz", Role: RoleStudent}
	require.NoError(t, usr.SetPassword("secret123"))

	data, err := json.Marshal(usr)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), string(usr.PasswordHash))
}

func TestUpdatePasswordValidate(t *testing.T) {
	tests := []struct {
		name    string
		current string
		pwd     string
		confirm string
		wantErr bool
	}{
		{name: "ok", current: "oldsecret1", pwd: "secret123", confirm: "secret123"},
		{name: "missing current", pwd: "secret123", confirm: "secret123", wantErr: true},
		{name: "too short", current: "oldsecret1", pwd: "shorty", confirm: "shorty", wantErr: true},
		{name: "too long for bcrypt", current: "oldsecret1", pwd: strings.Repeat("x", 73), confirm: strings.Repeat("x", 73), wantErr: true},
		{name: "whitespace", current: "oldsecret1", pwd: "has a space", confirm: "has a space", wantErr: true},
		{name: "all numeric", current: "oldsecret1", pwd: "1234567890", confirm: "1234567890", wantErr: true},
		{name: "mismatch", current: "oldsecret1", pwd: "secret123", confirm: "secret124", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := UpdatePassword{
				PasswordCurrent: tt.current,
				Password:        tt.pwd,
				PasswordConfirm: tt.confirm,
			}
			err := up.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserRoles(t *testing.T) {
	admin := User{Role: RoleAdmin}
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.HasAnyRole(RoleAdmin, RoleTeacher))
	assert.False(t, admin.HasAnyRole(RoleStudent))

	student := User{Role: RoleStudent}
	assert.True(t, student.IsStudent())
	assert.False(t, student.HasAnyRole())
}
