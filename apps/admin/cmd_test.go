package main

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progress-uz/backend/core/user"
	dummydb "github.com/progress-uz/backend/storage/database/dummy"
)

func newTestCLI(t *testing.T) (*commandLine, user.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)

	repo := dummydb.NewUserRepository(db)
	return &commandLine{usrRepo: repo}, repo
}

func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(_ int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func TestCLIUsage(t *testing.T) {
	cli, _ := newTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: []string{"admin"}},
		{name: "unknown command", args: []string{"admin", "frobnicate"}},
		{name: "migrate without args", args: []string{"admin", "migrate"}},
		{name: "adduser without email", args: []string{"admin", "adduser", "-name", "Jane"}},
		{name: "resetpassword without username", args: []string{"admin", "resetpassword"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, errHelp, cli.run(tt.args))
		})
	}
}

func TestCLIAddUser(t *testing.T) {
	ctx := context.Background()
	cli, repo := newTestCLI(t)
	mockPassword(t, "secret123")

	t.Run("creates admin by default", func(t *testing.T) {
		err := cli.run([]string{"admin", "adduser", "-name", "Jane", "-username", "jane", "-email", "Jane@test.uz"})
		require.NoError(t, err)

		usr, err := repo.GetUserByEmail(ctx, "jane@test.uz")
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, usr.Role)
		assert.Equal(t, "jane", usr.Username)
		assert.NoError(t, usr.CheckPassword("secret123"))
	})

	t.Run("updates an existing user", func(t *testing.T) {
		mockPassword(t, "m0resecret")
		err := cli.run([]string{"admin", "adduser", "-email", "jane@test.uz", "-role", user.RoleTeacher})
		require.NoError(t, err)

		usr, err := repo.GetUserByEmail(ctx, "jane@test.uz")
		require.NoError(t, err)
		assert.Equal(t, user.RoleTeacher, usr.Role)
		assert.Equal(t, "Jane", usr.Name) // kept
		assert.NoError(t, usr.CheckPassword("m0resecret"))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		err := cli.run([]string{"admin", "adduser", "-email", "other@test.uz", "-role", "janitor"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown role")
	})

	t.Run("empty password", func(t *testing.T) {
		mockPassword(t, "")
		err := cli.run([]string{"admin", "adduser", "-email", "nopwd@test.uz"})
		assert.Equal(t, errHelp, err)
	})
}

func TestCLIResetPassword(t *testing.T) {
	ctx := context.Background()
	cli, repo := newTestCLI(t)

	usr := user.User{
		Name:      "Jane",
		Username:  "jane",
		Email:     "jane@test.uz",
		Role:      user.RoleStudent,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, usr.SetPassword("secret123"))
	_, err := repo.CreateUser(ctx, usr)
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		mockPassword(t, "m0resecret")
		err := cli.run([]string{"admin", "resetpassword", "-username", "ghost"})
		assert.Equal(t, user.ErrNotFound, err)
	})

	t.Run("by username", func(t *testing.T) {
		mockPassword(t, "m0resecret")
		require.NoError(t, cli.run([]string{"admin", "resetpassword", "-username", "jane"}))

		stored, err := repo.GetUserByEmail(ctx, "jane@test.uz")
		require.NoError(t, err)
		assert.NoError(t, stored.CheckPassword("m0resecret"))
		assert.Error(t, stored.CheckPassword("secret123"))
	})

	t.Run("by email", func(t *testing.T) {
		mockPassword(t, "3venm0resecret")
		require.NoError(t, cli.run([]string{"admin", "resetpassword", "-username", "jane@test.uz"}))

		stored, err := repo.GetUserByEmail(ctx, "jane@test.uz")
		require.NoError(t, err)
		assert.NoError(t, stored.CheckPassword("3venm0resecret"))
	})
}

func TestCLIMigrate(t *testing.T) {
	cli, _ := newTestCLI(t)

	var gotCommand, gotDir string
	var gotArgs []string
	orig := gooseRunFunc
	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		gotCommand, gotDir, gotArgs = command, dir, args
		return nil
	}
	t.Cleanup(func() { gooseRunFunc = orig })

	require.NoError(t, cli.run([]string{"admin", "migrate", "up-to", "2"}))
	assert.Equal(t, "up-to", gotCommand)
	assert.Equal(t, "migrations", gotDir)
	assert.Equal(t, []string{"2"}, gotArgs)
}
