package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("HTTP_LISTEN_ADDR")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("TREE_FILE")
	os.Unsetenv("CHECK_TIMEOUT")
	os.Unsetenv("MAX_CONCURRENT_CHECKS")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, ":8090", cfg.HTTPListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "statusboard.yaml", cfg.TreeFile)
	assert.Equal(t, "", cfg.APIToken)
	assert.Equal(t, 10*time.Second, cfg.CheckTimeout)
	assert.Equal(t, 8, cfg.MaxConcurrentChecks)
}

func TestLoad_AllEnvVars(t *testing.T) {
	t.Setenv("HTTP_LISTEN_ADDR", ":7071")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TREE_FILE", "/var/lib/statusboard/tree.yaml")
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("CHECK_TIMEOUT", "30s")
	t.Setenv("MAX_CONCURRENT_CHECKS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7071", cfg.HTTPListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/statusboard/tree.yaml", cfg.TreeFile)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 30*time.Second, cfg.CheckTimeout)
	assert.Equal(t, 4, cfg.MaxConcurrentChecks)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("CHECK_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHECK_TIMEOUT")
}

func TestLoad_InvalidMaxChecks(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_CHECKS", "many")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_CONCURRENT_CHECKS")
}

func TestValidate_MissingFields(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_LISTEN_ADDR")
	assert.Contains(t, err.Error(), "TREE_FILE")
}

func TestValidate_BadLimits(t *testing.T) {
	cfg := &Config{HTTPListenAddr: ":8090", TreeFile: "t.yaml", CheckTimeout: time.Second}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_CONCURRENT_CHECKS")

	cfg.MaxConcurrentChecks = 2
	cfg.CheckTimeout = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHECK_TIMEOUT")
}

func TestValidate_AllPresent(t *testing.T) {
	cfg := &Config{
		HTTPListenAddr:      ":8090",
		TreeFile:            "tree.yaml",
		CheckTimeout:        time.Second,
		MaxConcurrentChecks: 4,
	}
	assert.NoError(t, cfg.Validate())
}
