package logger

import (
	"strings"

	"github.com/aleister1102/pagewatch/internal/common"
	"github.com/rs/zerolog"
)

// ParseLevel parses string log level to zerolog.Level.
// Empty input yields InfoLevel without error.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if strings.TrimSpace(levelStr) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// ParseFormat parses string format to LogFormat, defaulting to console
func ParseFormat(formatStr string) LogFormat {
	switch strings.ToLower(formatStr) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}
