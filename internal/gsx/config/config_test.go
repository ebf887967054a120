package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	dir := writeConfig(t, `inject_source: true
jobs: 3
log_level: debug
skip_dirs:
  - dist
  - testdata
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.True(t, cfg.InjectSource)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"vendor", "node_modules", "cursor-extension", "dist", "testdata"}, cfg.SkipDirs)
}

func TestLoad_Defaults(t *testing.T) {
	dir := writeConfig(t, "inject_source: false\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.InjectSource)
	assert.Equal(t, runtime.NumCPU(), cfg.Jobs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"vendor", "node_modules", "cursor-extension"}, cfg.SkipDirs)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	cfg, err := LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "inject_source: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), FileName)

	_, err = Load(writeConfig(t, "jobs: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jobs must not be negative")
}

func TestConfig_SkipDir(t *testing.T) {
	cfg := Default()
	cfg.SkipDirs = append(cfg.SkipDirs, "dist")

	for _, name := range []string{"vendor", "node_modules", "cursor-extension", "dist", ".git", ".cache"} {
		assert.True(t, cfg.SkipDir(name), name)
	}
	for _, name := range []string{"views", ".", "src"} {
		assert.False(t, cfg.SkipDir(name), name)
	}
}
