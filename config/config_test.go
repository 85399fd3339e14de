package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8002")
	t.Setenv("ADDRESS", "127.0.0.1")
	t.Setenv("ENV", "dev")
	t.Setenv("LOG_LEVEL", "info")
}

func TestLoadValidConfig(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8002" {
		t.Errorf("Expected port 8002, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Expected env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level info, got %s", cfg.LogLevel)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	for _, key := range GetEnvVars() {
		if value, ok := os.LookupEnv(key); ok {
			t.Setenv(key, value)
			_ = os.Unsetenv(key)
		}
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Expected default port 8000, got %s", cfg.Port)
	}
	if cfg.NumericFailurePolicy != "keep" {
		t.Errorf("Expected default policy keep, got %s", cfg.NumericFailurePolicy)
	}
	if cfg.CleanedPath != "cleaned_drugs_dataset.csv" {
		t.Errorf("Expected default cleaned path, got %s", cfg.CleanedPath)
	}
	if cfg.ReloadInterval != 0 {
		t.Errorf("Expected reload disabled by default, got %s", cfg.ReloadInterval)
	}
	if cfg.PreviewRows != 20 || cfg.TopN != 10 {
		t.Errorf("Expected preview 20 and top 10, got %d and %d", cfg.PreviewRows, cfg.TopN)
	}
	if cfg.WriteFeatures {
		t.Error("Expected feature output disabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	setValidEnv(t)

	path := filepath.Join(t.TempDir(), "drugs-eda.yaml")
	content := "INPUT_PATH: data/raw.csv\nNUMERIC_FAILURE_POLICY: zero\nRELOAD_INTERVAL: 5m\nWRITE_FEATURES: true\nPORT: \"9001\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.InputPath != "data/raw.csv" {
		t.Errorf("Expected input path from file, got %s", cfg.InputPath)
	}
	if cfg.NumericFailurePolicy != "zero" {
		t.Errorf("Expected policy zero, got %s", cfg.NumericFailurePolicy)
	}
	if cfg.ReloadInterval != 5*time.Minute {
		t.Errorf("Expected reload interval 5m, got %s", cfg.ReloadInterval)
	}
	if !cfg.WriteFeatures {
		t.Error("Expected feature output enabled")
	}
	// The environment wins over the file
	if cfg.Port != "8002" {
		t.Errorf("Expected port from environment, got %s", cfg.Port)
	}
}

func TestLoadFileMissing(t *testing.T) {
	setValidEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestInvalidValues(t *testing.T) {
	testCases := []struct {
		key      string
		value    string
		expected string
	}{
		{"PORT", "abc", "PORT must be a valid number"},
		{"PORT", "0", "PORT must be between 1 and 65535"},
		{"PORT", "65536", "PORT must be between 1 and 65535"},
		{"PORT", "80", "PORT 80 is privileged"},
		{"ADDRESS", "invalid", "ADDRESS must be a valid IP address"},
		{"ADDRESS", "0.0.0.0", "listens on every interface"},
		{"ADDRESS", "8.8.8.8", "is a public IP"},
		{"ENV", "invalid", "ENV must be one of"},
		{"LOG_LEVEL", "verbose", "LOG_LEVEL must be one of"},
		{"NUMERIC_FAILURE_POLICY", "drop", "NUMERIC_FAILURE_POLICY must be one of"},
		{"RELOAD_INTERVAL", "10ms", "RELOAD_INTERVAL is too small"},
		{"RELOAD_INTERVAL", "-1m", "RELOAD_INTERVAL cannot be negative"},
		{"PREVIEW_ROWS", "0", "PREVIEW_ROWS must be positive"},
		{"TOP_N", "5000", "TOP_N is too large"},
		{"LOG_RETENTION_WEEKS", "60", "LOG_RETENTION_WEEKS is too large"},
		{"MAX_LOG_FILE_SIZE", "1024", "MAX_LOG_FILE_SIZE is too small"},
		{"RATE_LIMIT_RATE", "0", "RATE_LIMIT_RATE and RATE_LIMIT_CAPACITY must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s=%s", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.expected) {
				t.Errorf("Expected error containing %q, got %q", tc.expected, err.Error())
			}
		})
	}
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
		wantErr  bool
	}{
		{"dev", EnvDevelopment, false},
		{"development", EnvDevelopment, false},
		{"staging", EnvStaging, false},
		{"prod", EnvProduction, false},
		{"production", EnvProduction, false},
		{"test", EnvTest, false},
		{"  PROD ", EnvProduction, false},
		{"invalid", EnvDevelopment, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEnvironment(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseEnvironment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseEnvironment(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	if EnvProduction.String() != "prod" {
		t.Errorf("Expected prod, got %s", EnvProduction.String())
	}
	if EnvTest.String() != "test" {
		t.Errorf("Expected test, got %s", EnvTest.String())
	}
}

func TestValidateAfterOverride(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected loaded config to validate, got %v", err)
	}

	cfg.LogLevel = "loud"
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "LOG_LEVEL must be one of") {
		t.Errorf("Expected LOG_LEVEL error, got %v", err)
	}

	cfg.LogLevel = "debug"
	cfg.Port = "70000"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for port 70000")
	}
}
