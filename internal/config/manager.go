package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ChangeListener is called after a successful reload with the previous and new configuration.
type ChangeListener func(previous, current *GlobalConfig)

// ConfigManager holds the active configuration and optionally reloads it when the file changes.
type ConfigManager struct {
	mu         sync.RWMutex
	config     *GlobalConfig
	configPath string
	logger     zerolog.Logger
	watcher    *fsnotify.Watcher
	listeners  []ChangeListener
	stopChan   chan struct{}
	stopOnce   sync.Once

	hotReloadEnabled bool
	reloadDelay      time.Duration
}

// ConfigManagerOptions holds options for creating a ConfigManager
type ConfigManagerOptions struct {
	Logger           zerolog.Logger
	HotReloadEnabled bool
	ReloadDelay      time.Duration
}

// DefaultConfigManagerOptions returns default options for ConfigManager
func DefaultConfigManagerOptions() ConfigManagerOptions {
	return ConfigManagerOptions{
		Logger:           zerolog.Nop(),
		HotReloadEnabled: false,
		ReloadDelay:      500 * time.Millisecond, // collapse editors' write bursts
	}
}

// NewConfigManager loads and validates the configuration found via GetConfigPath(configPath).
func NewConfigManager(configPath string, opts ConfigManagerOptions) (*ConfigManager, error) {
	cm := &ConfigManager{
		configPath:       GetConfigPath(configPath),
		logger:           opts.Logger.With().Str("component", "ConfigManager").Logger(),
		stopChan:         make(chan struct{}),
		hotReloadEnabled: opts.HotReloadEnabled,
		reloadDelay:      opts.ReloadDelay,
	}
	if configPath != "" && !fileExists(configPath) {
		return nil, fmt.Errorf("config file '%s' does not exist", configPath)
	}

	cfg, err := cm.readConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load initial configuration: %w", err)
	}
	cm.config = cfg

	if cm.hotReloadEnabled && cm.configPath != "" {
		if err := cm.setupFileWatcher(); err != nil {
			cm.logger.Warn().Err(err).Msg("Failed to setup file watcher, hot-reload disabled")
			cm.hotReloadEnabled = false
		}
	} else {
		cm.hotReloadEnabled = false
	}

	return cm, nil
}

// GetConfig returns a copy of the current configuration
func (cm *ConfigManager) GetConfig() *GlobalConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.Clone()
}

// GetConfigPath returns the resolved configuration file path ("" when running on defaults)
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// IsHotReloadEnabled returns whether hot-reload is active
func (cm *ConfigManager) IsHotReloadEnabled() bool {
	return cm.hotReloadEnabled
}

// OnChange registers a listener for successful reloads.
func (cm *ConfigManager) OnChange(listener ChangeListener) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.listeners = append(cm.listeners, listener)
}

// ReloadConfig re-reads the file. An invalid file leaves the current configuration in place.
func (cm *ConfigManager) ReloadConfig() error {
	cfg, err := cm.readConfig()
	if err != nil {
		return err
	}

	cm.mu.Lock()
	previous := cm.config
	cm.config = cfg
	listeners := append([]ChangeListener(nil), cm.listeners...)
	cm.mu.Unlock()

	cm.logger.Info().Str("path", cm.configPath).Msg("Configuration reloaded")
	for _, listener := range listeners {
		listener(previous.Clone(), cfg.Clone())
	}
	return nil
}

// StartHotReload starts the watch loop (non-blocking). No-op when hot-reload is disabled.
func (cm *ConfigManager) StartHotReload(ctx context.Context) {
	if !cm.hotReloadEnabled {
		return
	}
	go cm.hotReloadLoop(ctx)
}

// Close stops the watch loop and releases the watcher
func (cm *ConfigManager) Close() error {
	var err error
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
		if cm.watcher != nil {
			err = cm.watcher.Close()
		}
	})
	return err
}

func (cm *ConfigManager) readConfig() (*GlobalConfig, error) {
	cfg, err := LoadGlobalConfig(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cm *ConfigManager) setupFileWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: editors often replace the file rather than write it in place.
	configDir := filepath.Dir(cm.configPath)
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory '%s': %w", configDir, err)
	}

	cm.watcher = watcher
	cm.logger.Info().Str("directory", configDir).Msg("File watcher setup for hot-reload")
	return nil
}

func (cm *ConfigManager) hotReloadLoop(ctx context.Context) {
	reloadTimer := time.NewTimer(time.Hour)
	reloadTimer.Stop()
	defer reloadTimer.Stop()

	target := filepath.Clean(cm.configPath)

	for {
		select {
		case <-ctx.Done():
			cm.logger.Info().Msg("Hot-reload loop stopped due to context cancellation")
			return

		case <-cm.stopChan:
			cm.logger.Info().Msg("Hot-reload loop stopped")
			return

		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				cm.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("Config file change detected")
				reloadTimer.Reset(cm.reloadDelay)
			}

		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			cm.logger.Error().Err(err).Msg("File watcher error")

		case <-reloadTimer.C:
			if err := cm.ReloadConfig(); err != nil {
				cm.logger.Error().Err(err).Msg("Failed to reload configuration, keeping previous values")
			}
		}
	}
}
