package core

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Success(t *testing.T) {
	tempDir := t.TempDir()
	configPath := writeConfig(t, `port: 8080
logLevel: debug
shutdownTimeoutSeconds: 5
upload:
  maxSizeBytes: 2048
  minDimension: 4
  maxPixels: 5000
  bodyLimit: 4K
archive:
  tempDir: `+tempDir+`
cors:
  allowOrigins:
    - https://example.com
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Port != 8080 {
		t.Errorf("Expected port to be 8080, got %d", config.Port)
	}
	if config.Upload.MaxSizeBytes != 2048 || config.Upload.MinDimension != 4 || config.Upload.MaxPixels != 5000 || config.Upload.BodyLimit != "4K" {
		t.Errorf("Unexpected upload config %+v", config.Upload)
	}
	if config.Archive.TempDir != tempDir {
		t.Errorf("Expected tempDir %s, got %s", tempDir, config.Archive.TempDir)
	}
	if len(config.CORS.AllowOrigins) != 1 || config.CORS.AllowOrigins[0] != "https://example.com" {
		t.Errorf("Unexpected CORS origins %v", config.CORS.AllowOrigins)
	}
	level, err := config.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "port: 9000\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	defaults := DefaultConfig()
	if config.Upload.MaxSizeBytes != defaults.Upload.MaxSizeBytes {
		t.Errorf("Expected default max size, got %d", config.Upload.MaxSizeBytes)
	}
	if config.Upload.MinDimension != 10 {
		t.Errorf("Expected default min dimension 10, got %d", config.Upload.MinDimension)
	}
	if config.Upload.MaxPixels != defaults.Upload.MaxPixels {
		t.Errorf("Expected default max pixels, got %d", config.Upload.MaxPixels)
	}
	if config.LogLevel != "info" || config.ShutdownTimeoutSeconds != 10 {
		t.Errorf("Unexpected defaults %+v", config)
	}
	if len(config.CORS.AllowOrigins) != 1 || config.CORS.AllowOrigins[0] != "*" {
		t.Errorf("Expected open CORS by default, got %v", config.CORS.AllowOrigins)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", "port: 70000\n"},
		{"unknown log level", "logLevel: verbose\n"},
		{"negative min dimension", "upload:\n  minDimension: -1\n"},
		{"negative max pixels", "upload:\n  maxPixels: -1\n"},
		{"missing temp dir", "archive:\n  tempDir: /path/that/does/not/exist\n"},
		{"malformed yaml", "port: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if config != nil {
				t.Error("Expected config to be nil on error")
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	config, err := LoadConfig("/path/that/does/not/exist/config.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil when file doesn't exist")
	}
}
