package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RYOKOU_DATA_DIR", "RYOKOU_DB_PATH", "RYOKOU_IMAGE_DIR", "RYOKOU_PREFS_PATH",
		"RYOKOU_CACHE_SIZE", "RYOKOU_JPEG_QUALITY", "RYOKOU_MAX_IMAGE_DIMENSION",
		"RYOKOU_TIMEZONE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	// Keep a stray .env in the package directory from leaking in.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("RYOKOU_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "itinerary.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, "ItineraryImages"), cfg.ImageDir)
	assert.Equal(t, filepath.Join(dir, "preferences.yaml"), cfg.PrefsPath)
	assert.Equal(t, 100, cfg.CacheSize)
	assert.Equal(t, 80, cfg.JPEGQuality)
	assert.Equal(t, 2048, cfg.MaxImageSize)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RYOKOU_DATA_DIR", "/data")
	t.Setenv("RYOKOU_DB_PATH", "/elsewhere/trip.db")
	t.Setenv("RYOKOU_CACHE_SIZE", "5")
	t.Setenv("RYOKOU_TIMEZONE", "Asia/Tokyo")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/elsewhere/trip.db", cfg.DBPath)
	assert.Equal(t, filepath.Join("/data", "ItineraryImages"), cfg.ImageDir)
	assert.Equal(t, 5, cfg.CacheSize)
	assert.Equal(t, "Asia/Tokyo", cfg.Location.String())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidNumbersFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RYOKOU_CACHE_SIZE", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.CacheSize)
}

func TestLoad_RejectsOutOfRange(t *testing.T) {
	clearEnv(t)
	t.Setenv("RYOKOU_JPEG_QUALITY", "101")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("RYOKOU_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.Error(t, err)
}

func TestSetDataDir_KeepsExplicitPaths(t *testing.T) {
	clearEnv(t)
	t.Setenv("RYOKOU_IMAGE_DIR", "/pinned/images")

	cfg, err := Load()
	require.NoError(t, err)

	cfg.SetDataDir("/trip")
	assert.Equal(t, filepath.Join("/trip", "itinerary.db"), cfg.DBPath)
	assert.Equal(t, "/pinned/images", cfg.ImageDir)
	assert.Equal(t, filepath.Join("/trip", "preferences.yaml"), cfg.PrefsPath)
}

func TestSetTimezone(t *testing.T) {
	cfg := &Config{Location: time.Local}
	require.NoError(t, cfg.SetTimezone("UTC"))
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Error(t, cfg.SetTimezone("Nowhere/Land"))
}
