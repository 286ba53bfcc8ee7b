package utils

import (
	"bufio"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// EnvLocations are the .env files tried by LoadEnvWithFallback, in order
var EnvLocations = []string{
	".env",
	".env.local",
	"config/.env",
}

// LoadEnv loads KEY=VALUE pairs from filename without overriding variables
// already present in the process environment. A missing file is not an error.
func LoadEnv(filename string, logger *slog.Logger) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("no env file found", "file", filename)
			return nil
		}
		return errors.Wrapf(err, "error opening %s file", filename)
	}
	defer file.Close()

	logger.Debug("loading environment variables", "file", filename)

	scanner := bufio.NewScanner(file)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			logger.Warn("invalid env line", "file", filename, "line", lineNumber)
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := unquote(strings.TrimSpace(parts[1]))
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); exists {
			logger.Debug("environment variable already set, keeping existing value", "key", key)
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return errors.Wrapf(err, "set %s from %s", key, filename)
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "error reading %s file", filename)
	}

	return nil
}

// LoadEnvWithFallback loads every readable file in EnvLocations.
// Earlier files win because values are never overridden.
func LoadEnvWithFallback(logger *slog.Logger) {
	for _, location := range EnvLocations {
		if err := LoadEnv(location, logger); err != nil {
			logger.Warn("could not load env file", "file", location, "error", err)
		}
	}
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
		(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
		return value[1 : len(value)-1]
	}
	return value
}
