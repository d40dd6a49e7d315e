package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sisverify.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
node_url: https://nodes.example.com
cache_dir: /tmp/codes
cache_max_bytes: 2048
timeout: 5s
concurrency: 8
log_level: debug
`), 0o600))

	cfg, err := loadConfig(path, envMap(map[string]string{
		"SISVERIFY_NODE_URL": "https://override.example.com",
		"SISVERIFY_NO_COLOR": "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://override.example.com", cfg.NodeURL)
	assert.Equal(t, "/tmp/codes", cfg.CacheDir)
	assert.EqualValues(t, 2048, cfg.CacheMaxBytes)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "0", cfg.CodeVersion)
	assert.True(t, cfg.NoColor)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), noEnv)
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("concurrency: [1"), 0o600))
	_, err = loadConfig(bad, noEnv)
	require.Error(t, err)

	tests := map[string]string{
		"SISVERIFY_TIMEOUT":         "soon",
		"SISVERIFY_CONCURRENCY":     "-2",
		"SISVERIFY_CACHE_MAX_BYTES": "lots",
		"SISVERIFY_LOG_LEVEL":       "chatty",
		"SISVERIFY_NO_COLOR":        "maybe",
	}
	for key, value := range tests {
		_, err := loadConfig("", envMap(map[string]string{key: value}))
		assert.Error(t, err, key)
	}
}

func TestGlobalFlags_OverrideConfig(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var g globalFlags
	g.register(fs)
	require.NoError(t, fs.Parse([]string{"-timeout", "2s", "-concurrency", "1", "-code-version", "3", "doc.json"}))

	cfg, err := g.config(fs, envMap(map[string]string{"SISVERIFY_CONCURRENCY": "9"}))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, "3", cfg.CodeVersion)
	assert.Equal(t, "warn", cfg.LogLevel)
}
