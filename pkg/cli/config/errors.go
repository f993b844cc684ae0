package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidLogLevel  = goerr.New("invalid log level")
	ErrInvalidLogFormat = goerr.New("invalid log format")
	ErrInvalidLabels    = goerr.New("invalid label table")
	ErrMissingChannel   = goerr.New("slack channel is required with a bot token")
)

// Context keys for error values
const (
	LogLevelKey  = "log_level"
	LogFormatKey = "log_format"
	LabelsKey    = "labels_path"
)
