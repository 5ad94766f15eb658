package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pyreview/internal/review"
)

// isolate points the config directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "pyreview")
}

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, FailOnRequestChanges, cfg.FailOn)
	assert.Equal(t, 80, cfg.MaxLineLength)
	assert.Equal(t, 30, cfg.MaxFunctionLength)
	assert.Equal(t, review.SnakeCasePattern, cfg.Naming.Function)
	assert.Equal(t, review.UpperCasePattern, cfg.Naming.Constant)
	assert.True(t, cfg.Cache.Enabled)
	assert.Positive(t, cfg.Jobs)
	assert.NoError(t, cfg.Validate())
}

func TestConfigPath_XDG(t *testing.T) {
	dir := isolate(t)
	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
max_line_length: 100
fail_on: none
naming:
  function: "^[a-z]+$"
cache:
  enabled: false
`)

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.MaxLineLength)
	assert.Equal(t, FailOnNone, cfg.FailOn)
	assert.Equal(t, "^[a-z]+$", cfg.Naming.Function)
	assert.Equal(t, review.SnakeCasePattern, cfg.Naming.Variable, "unset keys keep defaults")
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30, cfg.MaxFunctionLength)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "max_line_length: 100\n")
	t.Setenv("PYREVIEW_MAX_LINE_LENGTH", "120")
	t.Setenv("PYREVIEW_NAMING_CONSTANT", "^K_[A-Z]+$")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.MaxLineLength)
	assert.Equal(t, "^K_[A-Z]+$", cfg.Naming.Constant)
}

func TestLoad_OverridesWin(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "format: markdown\nmax_function_length: 40\n")
	t.Setenv("PYREVIEW_FORMAT", "sarif")

	cfg, err := Load(map[string]string{
		"format":              "json",
		"max_function_length": "50",
		"cache.enabled":       "false",
		"fail_on":             "",
	})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 50, cfg.MaxFunctionLength)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, FailOnRequestChanges, cfg.FailOn, "empty override is ignored")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		file      string
		wantErr   string
	}{
		{"unknown key", map[string]string{"provider": "x"}, "", "unknown config key"},
		{"bad format", map[string]string{"format": "html"}, "", "unsupported output format"},
		{"bad fail_on", map[string]string{"fail_on": "high"}, "", "fail_on must be"},
		{"zero jobs", map[string]string{"jobs": "0"}, "", "jobs must be positive"},
		{"malformed file", nil, "max_line_length: [\n", "parsing config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			if tt.file != "" {
				writeConfig(t, dir, tt.file)
			}
			_, err := Load(tt.overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveThenLoadFile(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.MaxLineLength = 99
	cfg.Naming.Variable = "^[a-z_]+$"
	cfg.Cache.Dir = "/tmp/pyreview-cache"
	require.NoError(t, Save(cfg))

	got, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	loaded, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 99, loaded.MaxLineLength)
	assert.Equal(t, "/tmp/pyreview-cache", loaded.Cache.Dir)
}

func TestLoadFile_IgnoresEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PYREVIEW_MAX_LINE_LENGTH", "120")
	cfg, err := LoadFile()
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.MaxLineLength)
}

func TestSetField(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(t *testing.T, cfg Config)
		wantErr bool
	}{
		{key: "format", value: "json", check: func(t *testing.T, c Config) { assert.Equal(t, "json", c.Format) }},
		{key: "max_line_length", value: "100", check: func(t *testing.T, c Config) { assert.Equal(t, 100, c.MaxLineLength) }},
		{key: "naming.function", value: "^f_", check: func(t *testing.T, c Config) { assert.Equal(t, "^f_", c.Naming.Function) }},
		{key: "cache.enabled", value: "false", check: func(t *testing.T, c Config) { assert.False(t, c.Cache.Enabled) }},
		{key: "cache.ttl_seconds", value: "60", check: func(t *testing.T, c Config) { assert.Equal(t, 60, c.Cache.TTLSeconds) }},
		{key: "max_line_length", value: "wide", wantErr: true},
		{key: "max_function_length", value: "-1", wantErr: true},
		{key: "format", value: "pdf", wantErr: true},
		{key: "nesting_threshold", value: "4", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := Default()
			err := SetField(&cfg, tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestReviewOptions(t *testing.T) {
	cfg := Default()
	cfg.MaxLineLength = 120
	cfg.Naming.Constant = "^K_[A-Z]+$"

	opts := cfg.ReviewOptions()
	assert.Equal(t, 120, opts.MaxLineLength)
	assert.Equal(t, 30, opts.MaxFunctionLength)
	assert.Equal(t, review.DefaultNestingThreshold, opts.NestingThreshold)
	assert.Equal(t, "^K_[A-Z]+$", opts.Naming.Constant)
}

func TestKeys(t *testing.T) {
	for _, k := range Keys() {
		assert.True(t, isKnownKey(k))
	}
	assert.False(t, isKnownKey("nesting_threshold"))
}
