// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// GoogleAPIConfig holds the Custom Search credentials. Both fields are
// required before any API call is made.
type GoogleAPIConfig struct {
	// APIKey is the Google API key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// SearchEngineID is the Custom Search Engine ID (the "cx" parameter).
	SearchEngineID string `json:"search_engine_id,omitempty" yaml:"search_engine_id,omitempty"`
}

// SearchConfig holds settings for the search pipeline.
type SearchConfig struct {
	// RetryCount is the number of retry attempts after a failed call
	// (default 3). A keyword is attempted RetryCount+1 times in total.
	RetryCount int `json:"retry_count" yaml:"retry_count"`

	// RetryDelay is the fixed wait between retry attempts and between
	// consecutive keywords (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// Timeout bounds each individual API call attempt (default 10s).
	// A keyword may take up to Timeout*(RetryCount+1) plus retry delays.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is sent with API requests (e.g. "keyword-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// OutputConfig holds settings for CSV export.
type OutputConfig struct {
	// Directory is where result files are written (default "output").
	Directory string `json:"directory" yaml:"directory"`

	// FilenamePrefix prefixes generated CSV filenames (default "search_results").
	FilenamePrefix string `json:"filename_prefix" yaml:"filename_prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default "info").
	Level string `json:"level" yaml:"level"`

	// FilePath is the log file location (default "logs/search.log").
	// Empty disables file logging.
	FilePath string `json:"file_path" yaml:"file_path"`

	// Console controls whether log output also goes to stderr.
	Console bool `json:"console_output" yaml:"console_output"`
}

// Config groups all tool configuration sections.
type Config struct {
	GoogleAPI GoogleAPIConfig `json:"google_api" yaml:"google_api"`
	Search    SearchConfig    `json:"search" yaml:"search"`
	Output    OutputConfig    `json:"output" yaml:"output"`
	Logging   LogConfig       `json:"logging" yaml:"logging"`
}
