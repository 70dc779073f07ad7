package badger

import (
	"bufio"
	"context"
	"os"
	"strings"
)

// envKeyAliases maps well-known .env variable names to the KV keys read by ResolveAPIKey
var envKeyAliases = map[string]string{
	"GEMINI_API_KEY":           "gemini_api_key",
	"GOOGLE_API_KEY":           "gemini_api_key",
	"MAGSTUDIO_GEMINI_API_KEY": "gemini_api_key",
	"ANTHROPIC_API_KEY":        "anthropic_api_key",
	"MAGSTUDIO_CLAUDE_API_KEY": "anthropic_api_key",
}

// LoadEnvFile loads variables from a .env file into the KV store
// Format supported:
//   - KEY=value
//   - KEY="value" or KEY='value' (quotes stripped)
//   - # comments (lines starting with #)
//   - Empty lines are ignored
//
// A missing file is not an error.
func (m *Manager) LoadEnvFile(ctx context.Context, filePath string) error {
	file, err := os.Open(filePath)
	if os.IsNotExist(err) {
		m.logger.Debug().Str("file", filePath).Msg(".env file does not exist, skipping")
		return nil
	}
	if err != nil {
		m.logger.Warn().Err(err).Str("file", filePath).Msg("Failed to open .env file")
		return nil // Non-fatal
	}
	defer file.Close()

	loadedCount := 0
	skippedCount := 0

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			m.logger.Warn().
				Str("file", filePath).
				Int("line", lineNum).
				Msg("Invalid line format, expected KEY=value")
			skippedCount++
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			skippedCount++
			continue
		}

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		if value == "" {
			skippedCount++
			continue
		}

		if alias, ok := envKeyAliases[strings.ToUpper(key)]; ok {
			key = alias
		}

		isNew, err := m.kv.upsert(key, value, "Loaded from .env file")
		if err != nil {
			m.logger.Error().Err(err).Str("key", key).Msg("Failed to store variable from .env")
			skippedCount++
			continue
		}

		m.logger.Debug().Str("key", key).Bool("new", isNew).Msg("Loaded variable from .env")
		loadedCount++
	}

	if err := scanner.Err(); err != nil {
		m.logger.Warn().Err(err).Str("file", filePath).Msg("Error reading .env file")
	}

	m.logger.Debug().
		Str("file", filePath).
		Int("loaded", loadedCount).
		Int("skipped", skippedCount).
		Msg("Finished loading variables from .env file")

	return nil
}
