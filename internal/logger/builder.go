package logger

import (
	"io"
	stdlog "log" // Standard Go log package, aliased to avoid conflict with zerolog field

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/aleister1102/pagewatch/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config  LoggerConfig
	factory *WriterFactory
	err     error
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:  DefaultLoggerConfig(),
		factory: NewWriterFactory(),
	}
}

// WithConfig applies the file-level log configuration
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		lb.err = err
	}

	lb.config.Level = level
	lb.config.Format = ParseFormat(cfg.LogFormat)
	lb.config.EnableFile = cfg.LogFile != ""
	lb.config.FilePath = cfg.LogFile
	if cfg.MaxLogSizeMB > 0 {
		lb.config.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		lb.config.MaxBackups = cfg.MaxLogBackups
	}
	return lb
}

// WithConsoleOutput redirects console output away from stderr
func (lb *LoggerBuilder) WithConsoleOutput(w io.Writer) *LoggerBuilder {
	lb.config.ConsoleOutput = w
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (zerolog.Logger, error) {
	if lb.err != nil {
		return zerolog.Nop(), lb.err
	}
	if err := lb.validateConfig(); err != nil {
		return zerolog.Nop(), err
	}

	writers := lb.createWriters()
	if len(writers) == 0 {
		return zerolog.Nop(), common.NewError("no output writers configured")
	}

	instance := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Logger()

	lb.configureStandardLog(instance)
	return instance, nil
}

func (lb *LoggerBuilder) validateConfig() error {
	if lb.config.EnableFile && lb.config.FilePath == "" {
		return common.NewValidationError("file_path", lb.config.FilePath, "file path required when file logging enabled")
	}
	if lb.config.MaxSizeMB <= 0 {
		return common.NewValidationError("max_size_mb", lb.config.MaxSizeMB, "max size must be positive")
	}
	return nil
}

func (lb *LoggerBuilder) createWriters() []io.Writer {
	var writers []io.Writer

	if lb.config.EnableConsole {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config.Format, lb.config.ConsoleOutput))
	}
	if lb.config.EnableFile {
		writers = append(writers, lb.factory.CreateFileWriter(lb.config))
	}

	return writers
}

// configureStandardLog routes the standard library logger (used by net/http) through zerolog
func (lb *LoggerBuilder) configureStandardLog(logger zerolog.Logger) {
	stdlog.SetOutput(logger)
	stdlog.SetFlags(0)
}

// New creates a logger from the file-level configuration
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
