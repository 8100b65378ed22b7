package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pywalk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
max_steps: 100
max_call_depth: 20
log_level: debug
log_format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{MaxSteps: 100, MaxCallDepth: 20, LogLevel: "debug", LogFormat: "json"}, cfg)
}

func TestLoadPartialFile(t *testing.T) {
	path := writeFile(t, "max_steps: 5\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.MaxSteps = 5
	assert.Equal(t, want, cfg)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "max_steps: 5\nlog_level: info\n")
	t.Setenv("PYWALK_MAX_STEPS", "42")
	t.Setenv("PYWALK_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxSteps)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		desc    string
		content string
		env     map[string]string
		err     string
	}{
		{"unknown key", "max_stepz: 1\n", nil, "field max_stepz not found"},
		{"invalid type", "max_steps: abc\n", nil, "cannot unmarshal"},
		{"invalid level", "log_level: loud\n", nil, `invalid log level: "loud"`},
		{"invalid format", "log_format: xml\n", nil, `invalid log format: "xml"`},
		{"invalid env", "", map[string]string{"PYWALK_MAX_CALL_DEPTH": "deep"}, "environment"},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeFile(t, c.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := Config{LogLevel: "info", LogFormat: "json"}
	log := cfg.Logger(&buf)
	log.Debug().Msg("hidden")
	log.Info().Str("k", "v").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"k":"v"`)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)
}
