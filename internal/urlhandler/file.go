package urlhandler

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	ErrFileNotFound   = errors.New("target file not found")
	ErrFilePermission = errors.New("permission denied reading target file")
	ErrFileEmpty      = errors.New("target file contains no valid URLs")
	ErrReadingFile    = errors.New("error reading target file")
)

// ReadTargetsFromFile reads one target per line. Blank lines and lines
// starting with '#' are skipped, invalid URLs are logged and skipped, and
// duplicates keep their first position. Targets are returned trimmed but
// otherwise verbatim since the string is the target's identity.
func ReadTargetsFromFile(filePath string, logger zerolog.Logger) ([]string, error) {
	fileLogger := logger.With().Str("file_path", filePath).Logger()

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("error checking file %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("target path is a directory, not a file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrFilePermission, filePath)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrReadingFile, filePath, err)
	}
	defer file.Close()

	var targets []string
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	lineNumber := 0
	skipped := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := ValidateTargetURL(line); err != nil {
			fileLogger.Warn().Err(err).Int("line", lineNumber).Str("value", line).Msg("Invalid target URL, skipping")
			skipped++
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		targets = append(targets, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadingFile, filePath, err)
	}

	fileLogger.Info().
		Int("lines_read", lineNumber).
		Int("targets", len(targets)).
		Int("skipped", skipped).
		Msg("Finished reading target file")

	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFileEmpty, filePath)
	}
	return targets, nil
}
