package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aleister1102/pagewatch/internal/common"
	"gopkg.in/yaml.v3"
)

// maxConfigFileSize bounds how much of a config file is read.
const maxConfigFileSize = 10 * 1024 * 1024

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	LogConfig          LogConfig          `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	MonitorConfig      MonitorConfig      `json:"monitor_config,omitempty" yaml:"monitor_config,omitempty"`
	NotificationConfig NotificationConfig `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	ServerConfig       ServerConfig       `json:"server_config,omitempty" yaml:"server_config,omitempty"`
	StorageConfig      StorageConfig      `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		LogConfig:          NewDefaultLogConfig(),
		MonitorConfig:      NewDefaultMonitorConfig(),
		NotificationConfig: NewDefaultNotificationConfig(),
		ServerConfig:       NewDefaultServerConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// YAML is used for .yaml/.yml files, JSON otherwise. Values missing from the
// file keep their defaults.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	if providedPath != "" && !fileExists(providedPath) {
		return nil, common.NewValidationError("config_file", providedPath, "config file does not exist")
	}

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		return cfg, nil
	}

	data, err := loadConfigFileContent(filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	return cfg, nil
}

// SaveGlobalConfig writes cfg to filePath, choosing the format from the extension.
func SaveGlobalConfig(cfg *GlobalConfig, filePath string) error {
	var (
		data []byte
		err  error
	)
	if isYAMLFile(filepath.Ext(filePath)) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return common.WrapError(err, "failed to marshal configuration")
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return common.WrapErrorf(err, "failed to write configuration to '%s'", filePath)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (gc *GlobalConfig) Clone() *GlobalConfig {
	if gc == nil {
		return NewDefaultGlobalConfig()
	}

	dst := *gc
	dst.MonitorConfig.InitialTargets = append([]string(nil), gc.MonitorConfig.InitialTargets...)
	dst.NotificationConfig.MentionRoleIDs = append([]string(nil), gc.NotificationConfig.MentionRoleIDs...)
	return &dst
}

func loadConfigFileContent(filePath string) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file '%s' exceeds %d bytes", filePath, maxConfigFileSize)
	}
	return os.ReadFile(filePath)
}

// parseConfigContent parses the config content based on file extension
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	if isYAMLFile(filepath.Ext(filePath)) {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
		return nil
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
	}
	return nil
}

// isYAMLFile checks if the file extension indicates a YAML file
func isYAMLFile(ext string) bool {
	return ext == ".yaml" || ext == ".yml"
}
