package config

const (
	// ConfigPathEnvVar overrides the config file location when the -config flag is empty.
	ConfigPathEnvVar = "PAGEWATCH_CONFIG_PATH"

	// Monitor Defaults
	DefaultCheckIntervalMs     = 2000
	DefaultFetchTimeoutSeconds = 10
	DefaultMaxRetries          = 3
	DefaultRetryBaseDelayMs    = 1000
	DefaultRetryMaxDelayMs     = 5000
	DefaultMaxContentSize      = 10 * 1024 * 1024 // 10MB
	DefaultUserAgent           = "pagewatch/1.0 (+https://github.com/aleister1102/pagewatch)"

	// Server Defaults
	DefaultServerListenAddr          = ":8080"
	DefaultServerReadTimeoutSeconds  = 15
	DefaultServerWriteTimeoutSeconds = 15

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Notification Defaults
	DefaultDiscordUsername = "pagewatch"
)
