package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRET_KEY", "a-signing-secret")

	conf, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []byte("a-signing-secret"), conf.SecretKey)
	assert.Equal(t, "test", conf.Env)
	assert.True(t, conf.TestMode)
	assert.Equal(t, 8000, conf.Server.Port)
}

func TestLoadConfigRequiresSecretKey(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("SECRETKEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}
