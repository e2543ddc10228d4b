package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/pagewatch/internal/api"
	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/aleister1102/pagewatch/internal/datastore"
	"github.com/aleister1102/pagewatch/internal/logger"
	"github.com/aleister1102/pagewatch/internal/models"
	"github.com/aleister1102/pagewatch/internal/monitor"
	"github.com/aleister1102/pagewatch/internal/notifier"
	"github.com/aleister1102/pagewatch/internal/urlhandler"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

func main() {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	if flags.CheckIntervalMs > 0 {
		gCfg.MonitorConfig.CheckIntervalMs = flags.CheckIntervalMs
		zLogger.Info().Int("check_interval_ms", flags.CheckIntervalMs).Msg("Check interval overridden by command line flag")
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	if flags.TargetsFile != "" {
		targets, err := urlhandler.ReadTargetsFromFile(flags.TargetsFile, zLogger)
		if err != nil {
			zLogger.Fatal().Err(err).Str("file", flags.TargetsFile).Msg("Failed to load targets file")
		}
		gCfg.MonitorConfig.InitialTargets = append(gCfg.MonitorConfig.InitialTargets, targets...)
	}

	store, err := newSnapshotStore(gCfg.StorageConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Str("sqlite_path", gCfg.StorageConfig.SQLitePath).Msg("Failed to open snapshot store")
	}
	defer store.Close()

	sink, err := newSink(gCfg.NotificationConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize notification sinks")
	}

	fetcher, err := monitor.NewFetcherFromConfig(gCfg.MonitorConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize fetcher")
	}

	monitoringService := monitor.NewMonitoringService(
		gCfg.MonitorConfig,
		gCfg.NotificationConfig,
		fetcher,
		store,
		sink,
		zLogger,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	configManager := startConfigWatcher(ctx, flags, monitoringService, zLogger)
	if configManager != nil {
		defer configManager.Close()
	}

	if err := monitoringService.Start(ctx); err != nil {
		zLogger.Fatal().Err(err).Msg("Monitoring service failed to start")
	}

	var server *api.Server
	if gCfg.ServerConfig.Enabled {
		server = api.NewServer(gCfg.ServerConfig, monitoringService, zLogger)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zLogger.Error().Err(err).Msg("API server stopped unexpectedly")
				cancel()
			}
		}()
	}

	zLogger.Info().
		Int("targets", len(monitoringService.ListTargets())).
		Dur("interval", gCfg.MonitorConfig.CheckInterval()).
		Bool("api_enabled", gCfg.ServerConfig.Enabled).
		Msg("pagewatch running")

	select {
	case <-ctx.Done():
		zLogger.Info().Msg("Shutdown requested")
	case <-monitoringService.Done():
		zLogger.Info().Msg("Monitoring finished after reaching the cycle limit")
	}

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			zLogger.Error().Err(err).Msg("API server shutdown failed")
		}
		shutdownCancel()
	}

	monitoringService.Stop()
	zLogger.Info().Msg("Application finished.")
}

func newSnapshotStore(cfg config.StorageConfig, zLogger zerolog.Logger) (models.SnapshotStore, error) {
	if cfg.SQLitePath == "" {
		zLogger.Info().Msg("Snapshots kept in memory")
		return datastore.NewMemorySnapshotStore(), nil
	}
	return datastore.NewSQLiteSnapshotStore(cfg.SQLitePath, zLogger)
}

func newSink(cfg config.NotificationConfig, zLogger zerolog.Logger) (notifier.Sink, error) {
	sinks := []notifier.Sink{notifier.NewLogSink(zLogger)}

	if cfg.DiscordWebhookURL != "" {
		discordNotifier, err := notifier.NewDiscordNotifier(cfg, &http.Client{Timeout: 20 * time.Second}, zLogger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, discordNotifier)
		zLogger.Info().Msg("Discord notifications enabled")
	}

	return notifier.NewMultiSink(sinks...), nil
}

// startConfigWatcher pushes check interval changes from the config file into
// the running service. Returns nil when no config file is in use.
func startConfigWatcher(ctx context.Context, flags AppFlags, svc *monitor.MonitoringService, zLogger zerolog.Logger) *config.ConfigManager {
	if !flags.HotReload || config.GetConfigPath(flags.GlobalConfigFile) == "" {
		return nil
	}

	cm, err := config.NewConfigManager(flags.GlobalConfigFile, config.ConfigManagerOptions{
		Logger:           zLogger,
		HotReloadEnabled: true,
		ReloadDelay:      config.DefaultConfigManagerOptions().ReloadDelay,
	})
	if err != nil {
		zLogger.Warn().Err(err).Msg("Config hot-reload unavailable")
		return nil
	}

	cm.OnChange(func(previous, current *config.GlobalConfig) {
		if flags.CheckIntervalMs > 0 {
			return
		}
		if previous.MonitorConfig.CheckIntervalMs == current.MonitorConfig.CheckIntervalMs {
			return
		}
		if err := svc.SetCheckInterval(current.MonitorConfig.CheckInterval()); err != nil {
			zLogger.Warn().Err(err).Msg("Ignoring reloaded check interval")
		}
	})
	cm.StartHotReload(ctx)

	zLogger.Info().Str("path", cm.GetConfigPath()).Msg("Watching configuration file for changes")
	return cm
}
