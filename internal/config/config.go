// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads tool configuration from the config file and
// environment through viper, applies defaults, and validates ranges.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/keyword-search/pkg/types"
)

// Defaults matching the documented behavior of the tool.
const (
	DefaultRetryCount = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultTimeout    = 10 * time.Second
	DefaultOutputDir  = "output"
	DefaultPrefix     = "search_results"
	DefaultLogLevel   = "info"
	DefaultLogFile    = "logs/search.log"
	DefaultUserAgent  = "keyword-search/0.1"
)

// placeholder values from the sample config that count as unset.
var placeholders = map[string]bool{
	"YOUR_GOOGLE_API_KEY_HERE":          true,
	"YOUR_CUSTOM_SEARCH_ENGINE_ID_HERE": true,
}

// Init wires viper to the config file search path and environment. The
// credentials keep their historical environment names alongside the
// KEYWORD_SEARCH-prefixed ones.
func Init(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("keyword-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "keyword-search"))
		}
	}

	viper.SetEnvPrefix("KEYWORD_SEARCH")
	viper.AutomaticEnv()

	viper.BindEnv("google_api.api_key", "KEYWORD_SEARCH_GOOGLE_API_KEY", "GOOGLE_API_KEY")
	viper.BindEnv("google_api.search_engine_id", "KEYWORD_SEARCH_SEARCH_ENGINE_ID", "GOOGLE_CUSTOM_SEARCH_ENGINE_ID")
	viper.BindEnv("output.directory", "KEYWORD_SEARCH_OUTPUT_DIRECTORY", "OUTPUT_DIRECTORY")
	viper.BindEnv("output.filename_prefix", "KEYWORD_SEARCH_FILENAME_PREFIX", "OUTPUT_FILENAME_PREFIX")
	viper.BindEnv("logging.level", "KEYWORD_SEARCH_LOG_LEVEL", "LOG_LEVEL")
	viper.BindEnv("logging.file_path", "KEYWORD_SEARCH_LOG_FILE_PATH", "LOG_FILE_PATH")
	viper.BindEnv("search.retry_count", "KEYWORD_SEARCH_RETRY_COUNT", "SEARCH_RETRY_COUNT")
	viper.BindEnv("search.retry_delay", "KEYWORD_SEARCH_RETRY_DELAY", "SEARCH_RETRY_DELAY")
	viper.BindEnv("search.timeout", "KEYWORD_SEARCH_TIMEOUT", "SEARCH_TIMEOUT")

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("search.retry_count", DefaultRetryCount)
	viper.SetDefault("search.retry_delay", DefaultRetryDelay)
	viper.SetDefault("search.timeout", DefaultTimeout)
	viper.SetDefault("search.user_agent", DefaultUserAgent)
	viper.SetDefault("output.directory", DefaultOutputDir)
	viper.SetDefault("output.filename_prefix", DefaultPrefix)
	viper.SetDefault("logging.level", DefaultLogLevel)
	viper.SetDefault("logging.file_path", DefaultLogFile)
	viper.SetDefault("logging.console_output", true)
}

// Load reads the configuration viper currently holds into a typed Config.
func Load() (types.Config, error) {
	cfg := types.Config{
		GoogleAPI: types.GoogleAPIConfig{
			APIKey:         viper.GetString("google_api.api_key"),
			SearchEngineID: viper.GetString("google_api.search_engine_id"),
		},
		Search: types.SearchConfig{
			RetryCount: viper.GetInt("search.retry_count"),
			RetryDelay: viper.GetDuration("search.retry_delay"),
			Timeout:    viper.GetDuration("search.timeout"),
			UserAgent:  viper.GetString("search.user_agent"),
		},
		Output: types.OutputConfig{
			Directory:      viper.GetString("output.directory"),
			FilenamePrefix: viper.GetString("output.filename_prefix"),
		},
		Logging: types.LogConfig{
			Level:    viper.GetString("logging.level"),
			FilePath: viper.GetString("logging.file_path"),
			Console:  viper.GetBool("logging.console_output"),
		},
	}

	// Placeholder values from the sample config are not credentials.
	if placeholders[cfg.GoogleAPI.APIKey] {
		cfg.GoogleAPI.APIKey = ""
	}
	if placeholders[cfg.GoogleAPI.SearchEngineID] {
		cfg.GoogleAPI.SearchEngineID = ""
	}

	if err := ValidateRanges(cfg.Search); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ValidateRanges checks the numeric search settings against the documented
// limits. Credential presence is checked separately by the runner, so the
// config command and connection check can run with partial configuration.
func ValidateRanges(s types.SearchConfig) error {
	if s.RetryCount < 0 || s.RetryCount > 10 {
		return fmt.Errorf("search.retry_count must be between 0 and 10, got %d", s.RetryCount)
	}
	if s.RetryDelay < 0 || s.RetryDelay > 60*time.Second {
		return fmt.Errorf("search.retry_delay must be between 0s and 60s, got %s", s.RetryDelay)
	}
	if s.Timeout < time.Second || s.Timeout > 60*time.Second {
		return fmt.Errorf("search.timeout must be between 1s and 60s, got %s", s.Timeout)
	}
	return nil
}

// WriteSample creates a sample configuration file with placeholder
// credentials and documented defaults.
func WriteSample(path string) error {
	sample := types.Config{
		GoogleAPI: types.GoogleAPIConfig{
			APIKey:         "YOUR_GOOGLE_API_KEY_HERE",
			SearchEngineID: "YOUR_CUSTOM_SEARCH_ENGINE_ID_HERE",
		},
		Search: types.SearchConfig{
			RetryCount: DefaultRetryCount,
			RetryDelay: DefaultRetryDelay,
			Timeout:    DefaultTimeout,
			UserAgent:  DefaultUserAgent,
		},
		Output: types.OutputConfig{
			Directory:      DefaultOutputDir,
			FilenamePrefix: DefaultPrefix,
		},
		Logging: types.LogConfig{
			Level:    DefaultLogLevel,
			FilePath: DefaultLogFile,
			Console:  true,
		},
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(&sample)
	if err != nil {
		return fmt.Errorf("marshaling sample config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
