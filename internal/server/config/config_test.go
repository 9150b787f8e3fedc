package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, cfg.SessionValidityDuration)
	assert.NotEmpty(t, cfg.DatabaseDSN)
	assert.NotEmpty(t, cfg.S3Bucket)
}

func TestParseJsonOverlay(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	content := `{
		"endpoint_addr_http": ":9090",
		"secret_key": "from-json",
		"session_validity_duration": "12h"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	os.Args = []string{"app", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
	assert.Equal(t, "from-json", cfg.SecretKey)
	assert.Equal(t, 12*time.Hour, cfg.SessionValidityDuration)
	// untouched fields keep their defaults
	assert.Equal(t, "listings", cfg.S3Bucket)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"app", "-a", ":7070", "-s", "from-flag", "-t", "48"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "from-flag", cfg.SecretKey)
	assert.Equal(t, 48*time.Hour, cfg.SessionValidityDuration)
}
