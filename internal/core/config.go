package core

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort                   = 8000
	defaultLogLevel               = "info"
	defaultShutdownTimeoutSeconds = 10
	defaultMaxSizeBytes           = 10 * 1024 * 1024
	defaultMinDimension           = 10
	defaultMaxPixels              = 40_000_000
	defaultBodyLimit              = "12M"
)

type Upload struct {
	MaxSizeBytes int64 `yaml:"maxSizeBytes"`
	MinDimension int   `yaml:"minDimension"`
	MaxPixels    int64 `yaml:"maxPixels"`
	// BodyLimit is the echo body limit, e.g. "12M". It must exceed MaxSizeBytes
	// so that oversized uploads reach the detailed size check.
	BodyLimit string `yaml:"bodyLimit"`
}

type Archive struct {
	TempDir string `yaml:"tempDir"`
}

type CORS struct {
	AllowOrigins []string `yaml:"allowOrigins"`
}

type ServiceConfig struct {
	Port                   int     `yaml:"port"`
	LogLevel               string  `yaml:"logLevel"`
	ShutdownTimeoutSeconds int     `yaml:"shutdownTimeoutSeconds"`
	Upload                 Upload  `yaml:"upload"`
	Archive                Archive `yaml:"archive"`
	CORS                   CORS    `yaml:"cors"`
}

// DefaultConfig returns the configuration used when no file sets a value
func DefaultConfig() *ServiceConfig {
	return &ServiceConfig{
		Port:                   defaultPort,
		LogLevel:               defaultLogLevel,
		ShutdownTimeoutSeconds: defaultShutdownTimeoutSeconds,
		Upload: Upload{
			MaxSizeBytes: defaultMaxSizeBytes,
			MinDimension: defaultMinDimension,
			MaxPixels:    defaultMaxPixels,
			BodyLimit:    defaultBodyLimit,
		},
		CORS: CORS{AllowOrigins: []string{"*"}},
	}
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

// applyDefaults fills every zero value with its default
func (c *ServiceConfig) applyDefaults() {
	defaults := DefaultConfig()
	if c.Port == 0 {
		c.Port = defaults.Port
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.ShutdownTimeoutSeconds == 0 {
		c.ShutdownTimeoutSeconds = defaults.ShutdownTimeoutSeconds
	}
	if c.Upload.MaxSizeBytes == 0 {
		c.Upload.MaxSizeBytes = defaults.Upload.MaxSizeBytes
	}
	if c.Upload.MinDimension == 0 {
		c.Upload.MinDimension = defaults.Upload.MinDimension
	}
	if c.Upload.MaxPixels == 0 {
		c.Upload.MaxPixels = defaults.Upload.MaxPixels
	}
	if c.Upload.BodyLimit == "" {
		c.Upload.BodyLimit = defaults.Upload.BodyLimit
	}
	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = defaults.CORS.AllowOrigins
	}
}

func (c *ServiceConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.ShutdownTimeoutSeconds < 0 {
		return fmt.Errorf("shutdownTimeoutSeconds must not be negative, got %d", c.ShutdownTimeoutSeconds)
	}
	if c.Upload.MaxSizeBytes < 0 {
		return fmt.Errorf("upload.maxSizeBytes must be positive, got %d", c.Upload.MaxSizeBytes)
	}
	if c.Upload.MaxPixels < 0 {
		return fmt.Errorf("upload.maxPixels must be positive, got %d", c.Upload.MaxPixels)
	}
	if c.Upload.MinDimension < 1 {
		return fmt.Errorf("upload.minDimension must be positive, got %d", c.Upload.MinDimension)
	}
	if c.Archive.TempDir != "" {
		info, err := os.Stat(c.Archive.TempDir)
		if err != nil {
			return fmt.Errorf("archive.tempDir %s is not accessible: %w", c.Archive.TempDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("archive.tempDir %s is not a directory", c.Archive.TempDir)
		}
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn or error)
func (c *ServiceConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid logLevel %q: %w", c.LogLevel, err)
	}
	return level, nil
}
