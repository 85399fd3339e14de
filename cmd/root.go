// Package cmd holds the drugs-eda command line: the batch `clean` stage and the
// `serve` dashboard.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/giygas/drugs-eda/config"
	"github.com/giygas/drugs-eda/logging"
)

var (
	// Global flags
	cfgFile  string
	envFile  string
	logLevel string

	// Loaded configuration
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "drugs-eda",
	Short: "Clean and explore the drugs.com side effects dataset",
	Long: `drugs-eda cleans the raw drugs.com side effects export, writes the cleaned
dataset with its exploratory charts and summary, and serves an interactive
dashboard over the cleaned data.`,
	PersistentPreRunE: bootstrap,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file, layered between the defaults and the environment")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is .env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "console log level: debug, info, warn or error (overrides LOG_LEVEL)")
}

// bootstrap loads the environment and the configuration, then sets up logging
func bootstrap(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}

	c, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		c.LogLevel = strings.ToLower(strings.TrimSpace(logLevel))
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c

	err = logging.Init(logging.Options{
		Dir:            cfg.LogDir,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		Env:            cfg.Env,
		Level:          cfg.LogLevel,
	})
	if err != nil {
		// Console logging still works
		logging.Warn("Failed to open log file, logging to console only", "dir", cfg.LogDir, "error", err)
	}

	logging.Debug("Configuration loaded", "config_file", cfgFile, "env", cfg.Env.String())
	return nil
}

// loadEnvFile loads path, or .env when path is empty and the file exists
func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}

	if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}
