package promptdir

import (
	"errors"
	"fmt"
	"os"
)

const gitignoreContent = "local/\n"

// ErrConfigExists is returned by Bootstrap when a config file is already
// present and overwrite was not requested.
var ErrConfigExists = errors.New("promptdir: config already exists")

// EnsureStructure creates the local/ directory and .gitignore file if they are
// missing. It is idempotent and does not create the root itself.
func EnsureStructure(d Dir) error {
	if err := os.MkdirAll(d.LocalDir(), 0o750); err != nil {
		return fmt.Errorf("promptdir: create local dir: %w", err)
	}

	if err := ensureGitignore(d); err != nil {
		return fmt.Errorf("promptdir: gitignore: %w", err)
	}

	return nil
}

func ensureGitignore(d Dir) error {
	path := d.GitignorePath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return os.WriteFile(path, []byte(gitignoreContent), 0o600)
}

// Bootstrap creates the directory from scratch and writes config as
// config.yaml. An existing config is kept unless overwrite is set.
func Bootstrap(d Dir, config []byte, overwrite bool) error {
	if err := os.MkdirAll(d.Root(), 0o750); err != nil {
		return fmt.Errorf("promptdir: create root: %w", err)
	}

	if err := EnsureStructure(d); err != nil {
		return err
	}

	if !overwrite {
		if _, err := os.Stat(d.ConfigPath()); err == nil {
			return ErrConfigExists
		}
	}

	if err := os.WriteFile(d.ConfigPath(), config, 0o600); err != nil {
		return fmt.Errorf("promptdir: write config: %w", err)
	}

	return nil
}
