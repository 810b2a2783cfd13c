// Package promptdir encapsulates path knowledge for the .promptgen/ project
// directory. It provides a Dir value object with accessors for the config
// file, saved prompts and local runtime state.
package promptdir

import (
	"os"
	"path/filepath"
	"sort"
)

// DefaultName is the directory name looked up in the working directory.
const DefaultName = ".promptgen"

// Dir is a value object that resolves paths within a .promptgen/ directory.
type Dir struct {
	root string
}

// New creates a Dir rooted at the given path. The path is converted to an
// absolute path. No I/O is performed.
func New(root string) Dir {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	return Dir{root: abs}
}

// Root returns the absolute path to the .promptgen/ directory.
func (d Dir) Root() string { return d.root }

// ConfigPath returns the path to the main config file.
func (d Dir) ConfigPath() string { return filepath.Join(d.root, "config.yaml") }

// CategoriesPath returns the path to an optional category catalogue that
// replaces the built-in one.
func (d Dir) CategoriesPath() string { return filepath.Join(d.root, "categories.yaml") }

// SavedDir returns the directory generated prompts are saved into.
func (d Dir) SavedDir() string { return filepath.Join(d.root, "prompts") }

// LocalDir returns the path to the local (gitignored) runtime state directory.
func (d Dir) LocalDir() string { return filepath.Join(d.root, "local") }

// LogPath returns the path to the log file inside local/.
func (d Dir) LogPath() string { return filepath.Join(d.root, "local", "promptgen.log") }

// GitignorePath returns the path to the .gitignore file inside .promptgen/.
func (d Dir) GitignorePath() string { return filepath.Join(d.root, ".gitignore") }

// SavedPrompts returns the saved prompt files in dir, oldest first. A missing
// or empty dir yields nil.
func SavedPrompts(dir string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, "prompt-*.txt"))
	if err != nil || len(matches) == 0 {
		return nil
	}

	sort.Strings(matches)

	return matches
}

// Exists reports whether the .promptgen/ root directory exists on disk.
func (d Dir) Exists() bool {
	info, err := os.Stat(d.root)

	return err == nil && info.IsDir()
}
