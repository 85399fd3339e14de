// Package config loads the drugs-eda configuration from defaults, an optional YAML
// file and the environment, then validates it
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment is the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment parses an environment name, accepting the long spellings
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	}
	return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
}

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogDir            string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	// Pipeline
	InputPath            string
	OutputDir            string
	NumericFailurePolicy string
	WriteFeatures        bool
	TopN                 int

	// Dashboard
	CleanedPath       string
	ReloadInterval    time.Duration // 0 disables the reload job
	PreviewRows       int
	RateLimitRate     int64 // tokens per second
	RateLimitCapacity int64
}

// defaults are applied before the config file and the environment
var defaults = map[string]any{
	"PORT":                   "8000",
	"ADDRESS":                "127.0.0.1",
	"ENV":                    "dev",
	"LOG_LEVEL":              "info",
	"LOG_DIR":                "logs",
	"LOG_RETENTION_WEEKS":    4,
	"MAX_LOG_FILE_SIZE":      int64(104857600), // 100MB
	"MAX_REQUEST_BODY":       int64(1048576),   // 1MB
	"MAX_HEADER_SIZE":        int64(1048576),   // 1MB
	"INPUT_PATH":             "drugs_side_effects_drugs_com.csv",
	"OUTPUT_DIR":             ".",
	"NUMERIC_FAILURE_POLICY": "keep",
	"WRITE_FEATURES":         false,
	"TOP_N":                  10,
	"CLEANED_PATH":           "cleaned_drugs_dataset.csv",
	"RELOAD_INTERVAL":        "0s",
	"PREVIEW_ROWS":           20,
	"RATE_LIMIT_RATE":        int64(5),
	"RATE_LIMIT_CAPACITY":    int64(500),
}

// Load loads and validates configuration from the environment
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from defaults, then the YAML file at path when path is
// not empty, then the environment
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	env, err := ParseEnvironment(v.GetString("ENV"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		Address:              v.GetString("ADDRESS"),
		Env:                  env,
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		LogDir:               v.GetString("LOG_DIR"),
		LogRetentionWeeks:    v.GetInt("LOG_RETENTION_WEEKS"),
		MaxLogFileSize:       v.GetInt64("MAX_LOG_FILE_SIZE"),
		MaxRequestBody:       v.GetInt64("MAX_REQUEST_BODY"),
		MaxHeaderSize:        v.GetInt64("MAX_HEADER_SIZE"),
		InputPath:            v.GetString("INPUT_PATH"),
		OutputDir:            v.GetString("OUTPUT_DIR"),
		NumericFailurePolicy: strings.ToLower(v.GetString("NUMERIC_FAILURE_POLICY")),
		WriteFeatures:        v.GetBool("WRITE_FEATURES"),
		TopN:                 v.GetInt("TOP_N"),
		CleanedPath:          v.GetString("CLEANED_PATH"),
		ReloadInterval:       v.GetDuration("RELOAD_INTERVAL"),
		PreviewRows:          v.GetInt("PREVIEW_ROWS"),
		RateLimitRate:        v.GetInt64("RATE_LIMIT_RATE"),
		RateLimitCapacity:    v.GetInt64("RATE_LIMIT_CAPACITY"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks c again, after command-line overrides were applied
func (c *Config) Validate() error {
	if err := validateConfig(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validatePolicy(cfg.NumericFailurePolicy); err != nil {
		return fmt.Errorf("invalid NUMERIC_FAILURE_POLICY: %w", err)
	}

	if err := validatePositive(cfg.TopN, "TOP_N", 1000); err != nil {
		return fmt.Errorf("invalid TOP_N: %w", err)
	}

	if err := validatePositive(cfg.PreviewRows, "PREVIEW_ROWS", 1000); err != nil {
		return fmt.Errorf("invalid PREVIEW_ROWS: %w", err)
	}

	if err := validateReloadInterval(cfg.ReloadInterval); err != nil {
		return fmt.Errorf("invalid RELOAD_INTERVAL: %w", err)
	}

	if cfg.RateLimitRate <= 0 || cfg.RateLimitCapacity <= 0 {
		return fmt.Errorf("invalid rate limit: RATE_LIMIT_RATE and RATE_LIMIT_CAPACITY must be positive")
	}

	if strings.TrimSpace(cfg.InputPath) == "" || strings.TrimSpace(cfg.CleanedPath) == "" {
		return fmt.Errorf("INPUT_PATH and CLEANED_PATH cannot be empty")
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s listens on every interface, bind a loopback or private address", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

func validatePolicy(policy string) error {
	switch policy {
	case "keep", "zero", "fail":
		return nil
	}
	return fmt.Errorf("NUMERIC_FAILURE_POLICY must be one of: [keep zero fail], got: %s", policy)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

func validatePositive(value int, configName string, maxValue int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, value)
	}
	if value > maxValue {
		return fmt.Errorf("%s is too large (max %d), got: %d", configName, maxValue, value)
	}
	return nil
}

func validateReloadInterval(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("RELOAD_INTERVAL cannot be negative, got: %s", d)
	}
	if d > 0 && d < time.Second {
		return fmt.Errorf("RELOAD_INTERVAL is too small (min 1s), got: %s", d)
	}
	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	vars := make([]string, 0, len(defaults))
	for key := range defaults {
		vars = append(vars, key)
	}
	return vars
}
