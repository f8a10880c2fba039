// Package config loads ryokou settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Storage
	DataDir   string
	DBPath    string
	ImageDir  string
	PrefsPath string

	// Images
	CacheSize    int
	JPEGQuality  int
	MaxImageSize int

	// Calendar grouping
	Location *time.Location

	LogLevel string
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dataDir := getEnv("RYOKOU_DATA_DIR", filepath.Join(home, ".ryokou"))

	loc, err := loadLocation(getEnv("RYOKOU_TIMEZONE", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:   dataDir,
		DBPath:    getEnv("RYOKOU_DB_PATH", ""),
		ImageDir:  getEnv("RYOKOU_IMAGE_DIR", ""),
		PrefsPath: getEnv("RYOKOU_PREFS_PATH", ""),

		CacheSize:    getEnvAsInt("RYOKOU_CACHE_SIZE", 100),
		JPEGQuality:  getEnvAsInt("RYOKOU_JPEG_QUALITY", 80),
		MaxImageSize: getEnvAsInt("RYOKOU_MAX_IMAGE_DIMENSION", 2048),

		Location: loc,
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
	cfg.ResolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDataDir moves every path that was derived from the data directory.
// Paths set explicitly through the environment are kept.
func (c *Config) SetDataDir(dir string) {
	c.DataDir = dir
	c.DBPath = getEnv("RYOKOU_DB_PATH", "")
	c.ImageDir = getEnv("RYOKOU_IMAGE_DIR", "")
	c.PrefsPath = getEnv("RYOKOU_PREFS_PATH", "")
	c.ResolvePaths()
}

// SetTimezone replaces the grouping location with the named IANA zone.
func (c *Config) SetTimezone(name string) error {
	loc, err := loadLocation(name)
	if err != nil {
		return err
	}
	c.Location = loc
	return nil
}

// ResolvePaths fills empty paths with their defaults under DataDir.
func (c *Config) ResolvePaths() {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "itinerary.db")
	}
	if c.ImageDir == "" {
		c.ImageDir = filepath.Join(c.DataDir, "ItineraryImages")
	}
	if c.PrefsPath == "" {
		c.PrefsPath = filepath.Join(c.DataDir, "preferences.yaml")
	}
}

// Validate checks numeric settings are within range.
func (c *Config) Validate() error {
	if c.CacheSize < 1 {
		return fmt.Errorf("RYOKOU_CACHE_SIZE must be positive, got %d", c.CacheSize)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("RYOKOU_JPEG_QUALITY must be 1-100, got %d", c.JPEGQuality)
	}
	if c.MaxImageSize < 0 {
		return fmt.Errorf("RYOKOU_MAX_IMAGE_DIMENSION must not be negative, got %d", c.MaxImageSize)
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
