package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/germanamz/promptgen/pkg/promptdir"
	"github.com/joho/godotenv"
)

// fallbackConfig is looked up in the working directory when the project dir
// has no config.yaml.
const fallbackConfig = "promptgen.yaml"

// loadDotEnv loads path into the environment; a missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// resolveConfigPath picks --config, then .promptgen/config.yaml, then
// promptgen.yaml. An empty result means built-in defaults.
func resolveConfigPath(explicit string, d promptdir.Dir) string {
	if explicit != "" {
		return explicit
	}

	for _, candidate := range []string{d.ConfigPath(), fallbackConfig} {
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// resolveSaveDir makes a configured save dir absolute against the working
// directory; unset means .promptgen/prompts.
func resolveSaveDir(configured string, d promptdir.Dir) string {
	switch {
	case configured == "":
		return d.SavedDir()
	case filepath.IsAbs(configured):
		return configured
	}

	if abs, err := filepath.Abs(configured); err == nil {
		return abs
	}
	return configured
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
