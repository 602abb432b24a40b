package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultPromptDir is the subdirectory within the user's home directory.
const defaultPromptDir = ".config/promptpilot/prompts"

// LoadPromptContent resolves an optional prompt template override.
// An empty configuredPath returns fallback unchanged. Absolute paths are read
// directly; relative paths are resolved inside ~/.config/promptpilot/prompts/.
func LoadPromptContent(configuredPath, fallback string) (string, error) {
	if configuredPath == "" {
		return fallback, nil
	}

	finalPath := configuredPath
	if !filepath.IsAbs(configuredPath) {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fallback, fmt.Errorf("failed to get user home directory: %w", err)
		}
		finalPath = filepath.Join(homeDir, defaultPromptDir, configuredPath)
	}

	promptBytes, err := os.ReadFile(finalPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fallback, fmt.Errorf("prompt file not found at '%s': %w", finalPath, err)
		}
		return fallback, fmt.Errorf("failed to read prompt file '%s': %w", finalPath, err)
	}
	if len(promptBytes) == 0 {
		return fallback, fmt.Errorf("prompt file '%s' is empty", finalPath)
	}

	return string(promptBytes), nil
}
