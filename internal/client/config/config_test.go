package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5000/api", c.APIBaseURL)
	assert.Equal(t, "skillswap.db", c.DatabasePath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 30*time.Second, c.RefreshTimeout)
	assert.False(t, c.UseCookies)
	assert.Equal(t, "text", c.LogFormat)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	envFile = "does-not-exist.env"
	t.Cleanup(func() { envFile = ".env" })

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	envFile = "does-not-exist.env"
	t.Cleanup(func() { envFile = ".env" })

	t.Setenv(apiURLEnvVar, "http://env:1/api")
	t.Setenv(logLevelEnvVar, "debug")
	os.Args = []string{"testbin", "-a", "http://flag:2/api"}

	cfg := LoadConfig()
	assert.Equal(t, "http://flag:2/api", cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}
