package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channel string) *Slack {
	return &Slack{
		botToken: botToken,
		channel:  channel,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewLabelsForTest creates a Labels config for testing purposes
func NewLabelsForTest(path string) *Labels {
	return &Labels{path: path}
}
