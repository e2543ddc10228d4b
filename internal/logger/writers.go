package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterStrategy defines interface for creating log writers
type WriterStrategy interface {
	CreateWriter(output io.Writer) io.Writer
}

// JSONWriterStrategy writes raw zerolog JSON
type JSONWriterStrategy struct{}

// CreateWriter creates a JSON writer
func (jws *JSONWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return output
}

// ConsoleWriterStrategy creates human readable writers
type ConsoleWriterStrategy struct {
	NoColor bool
}

// CreateWriter creates a console writer
func (cws *ConsoleWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.RFC3339,
		NoColor:    cws.NoColor,
	}
}

// WriterFactory creates writers based on format
type WriterFactory struct {
	strategies map[LogFormat]WriterStrategy
}

// NewWriterFactory creates a new writer factory
func NewWriterFactory() *WriterFactory {
	return &WriterFactory{
		strategies: map[LogFormat]WriterStrategy{
			FormatJSON:    &JSONWriterStrategy{},
			FormatConsole: &ConsoleWriterStrategy{NoColor: false},
			FormatText:    &ConsoleWriterStrategy{NoColor: true},
		},
	}
}

// CreateConsoleWriter creates a console writer on out (stderr when nil)
func (wf *WriterFactory) CreateConsoleWriter(format LogFormat, out io.Writer) io.Writer {
	if out == nil {
		out = os.Stderr
	}
	strategy, exists := wf.strategies[format]
	if !exists {
		strategy = &ConsoleWriterStrategy{NoColor: false}
	}
	return strategy.CreateWriter(out)
}

// CreateFileWriter creates a rotating file writer. Colors are never written to files.
func (wf *WriterFactory) CreateFileWriter(config LoggerConfig) io.Writer {
	_ = os.MkdirAll(filepath.Dir(config.FilePath), 0o755)

	rotator := &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSizeMB,
		LocalTime:  true,
		MaxBackups: config.MaxBackups,
	}

	if config.Format == FormatJSON {
		return (&JSONWriterStrategy{}).CreateWriter(rotator)
	}
	return (&ConsoleWriterStrategy{NoColor: true}).CreateWriter(rotator)
}
