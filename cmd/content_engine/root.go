package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-content-engine/config"
	"github.com/gcbaptista/go-content-engine/internal/engine"
	"github.com/gcbaptista/go-content-engine/internal/logging"
)

var (
	configPath string
	dataDir    string
	backend    string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "content_engine",
	Short: "Index, classify and search media content descriptors",
	Long: `content_engine enriches textual descriptors of media assets with keywords and a
category, keeps them in a record store and answers text, keyword, category and
related-content queries over them.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "configuration file (.toml, .yaml or .json)")
	flags.StringVar(&dataDir, "data-dir", "", "data directory (overrides the configuration)")
	flags.StringVar(&backend, "backend", "", "record store backend: memory or sqlite (overrides the configuration)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides the configuration)")
	flags.BoolVar(&jsonOutput, "json", false, "output results as JSON")
}

// loadSettings reads the configuration file, if any, and applies the command-line overrides.
func loadSettings() (config.Settings, error) {
	settings := config.DefaultSettings()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Settings{}, err
		}
		settings = loaded
	}
	if dataDir != "" {
		settings.Storage.DataDir = dataDir
	}
	if backend != "" {
		settings.Storage.Backend = backend
	}
	if logLevel != "" {
		settings.Logging.Level = logLevel
	}
	if conflicts := settings.Validate(); len(conflicts) > 0 {
		return config.Settings{}, fmt.Errorf("invalid settings: %v", conflicts)
	}
	return settings, nil
}

// openEngine opens the configured store. Logs go to the command's error stream.
func openEngine(cmd *cobra.Command) (*engine.Engine, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return engine.Open(settings, commandLogger(cmd, settings))
}

// openIndexedEngine opens the store and builds the corpus index so queries can run.
func openIndexedEngine(cmd *cobra.Command) (*engine.Engine, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return openIndexedEngineWith(cmd.Context(), settings, commandLogger(cmd, settings))
}

func openIndexedEngineWith(ctx context.Context, settings config.Settings, logger *slog.Logger) (*engine.Engine, error) {
	eng, err := engine.Open(settings, logger)
	if err != nil {
		return nil, err
	}
	if _, err := eng.Rebuild(ctx); err != nil {
		_ = eng.Close()
		return nil, fmt.Errorf("build index: %w", err)
	}
	return eng, nil
}

func commandLogger(cmd *cobra.Command, settings config.Settings) *slog.Logger {
	return logging.New(settings.Logging.Level, settings.Logging.Format, cmd.ErrOrStderr())
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
