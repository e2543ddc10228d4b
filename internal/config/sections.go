package config

import "time"

// LogConfig defines configuration for logging
type LogConfig struct {
	LogFile       string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	LogFormat     string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	MaxLogBackups int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty" validate:"omitempty,min=0"`
	MaxLogSizeMB  int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultLogConfig creates default log configuration
func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogFile:       DefaultLogFile,
		LogFormat:     DefaultLogFormat,
		LogLevel:      DefaultLogLevel,
		MaxLogBackups: DefaultMaxLogBackups,
		MaxLogSizeMB:  DefaultMaxLogSizeMB,
	}
}

// NotificationConfig defines where change and error events are delivered
type NotificationConfig struct {
	// NotifyOnFetchError routes terminal fetch failures to the sinks' OnError.
	NotifyOnFetchError bool     `json:"notify_on_fetch_error" yaml:"notify_on_fetch_error"`
	DiscordWebhookURL  string   `json:"discord_webhook_url,omitempty" yaml:"discord_webhook_url,omitempty" validate:"omitempty,url"`
	DiscordUsername    string   `json:"discord_username,omitempty" yaml:"discord_username,omitempty"`
	MentionRoleIDs     []string `json:"mention_role_ids,omitempty" yaml:"mention_role_ids,omitempty"`
}

// NewDefaultNotificationConfig creates default notification configuration
func NewDefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		NotifyOnFetchError: false,
		DiscordWebhookURL:  "",
		DiscordUsername:    DefaultDiscordUsername,
		MentionRoleIDs:     []string{},
	}
}

// ServerConfig defines the HTTP command surface
type ServerConfig struct {
	Enabled             bool   `json:"enabled" yaml:"enabled"`
	ListenAddr          string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty" validate:"required_if=Enabled true"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds,omitempty" yaml:"read_timeout_seconds,omitempty" validate:"omitempty,min=1"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds,omitempty" yaml:"write_timeout_seconds,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultServerConfig creates default server configuration
func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		Enabled:             true,
		ListenAddr:          DefaultServerListenAddr,
		ReadTimeoutSeconds:  DefaultServerReadTimeoutSeconds,
		WriteTimeoutSeconds: DefaultServerWriteTimeoutSeconds,
	}
}

// ReadTimeout returns the server read timeout.
func (sc ServerConfig) ReadTimeout() time.Duration {
	if sc.ReadTimeoutSeconds <= 0 {
		return DefaultServerReadTimeoutSeconds * time.Second
	}
	return time.Duration(sc.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (sc ServerConfig) WriteTimeout() time.Duration {
	if sc.WriteTimeoutSeconds <= 0 {
		return DefaultServerWriteTimeoutSeconds * time.Second
	}
	return time.Duration(sc.WriteTimeoutSeconds) * time.Second
}

// StorageConfig selects the snapshot store. An empty SQLitePath keeps snapshots in memory.
type StorageConfig struct {
	SQLitePath string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{}
}
