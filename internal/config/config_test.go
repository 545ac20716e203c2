package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "192.168.42.10:3671", cfg.GatewayAddr)
	assert.Equal(t, "0.0.0.0:0", cfg.LocalAddr)
	assert.Equal(t, time.Second, cfg.RequestTimeout)
	assert.Equal(t, 1024, cfg.ReadBuffer)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
mode: debug
gateway_addr: 10.0.0.5:3671
request_timeout: 250ms
`)
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, "10.0.0.5:3671", cfg.GatewayAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 8080, cfg.Port, "unset keys keep their defaults")
}

func TestLoadFileEnvOverride(t *testing.T) {
	t.Setenv("KNXIP_GATEWAY_ADDR", "10.1.1.1:3671")
	t.Setenv("KNXIP_PORT", "9090")

	cfg, err := LoadFile(writeConfig(t, "gateway_addr: 10.0.0.5:3671\n"))
	require.NoError(t, err)
	assert.Equal(t, "10.1.1.1:3671", cfg.GatewayAddr)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadFileRejectsNonPositiveTimeout(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "request_timeout: 0s\n"))
	assert.Error(t, err)
}
