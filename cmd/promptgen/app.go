package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/germanamz/promptgen/pkg/category"
	"github.com/germanamz/promptgen/pkg/clipboard"
	"github.com/germanamz/promptgen/pkg/config"
	"github.com/germanamz/promptgen/pkg/generate"
	"github.com/germanamz/promptgen/pkg/models"
	"github.com/germanamz/promptgen/pkg/prompt"
	"github.com/germanamz/promptgen/pkg/promptdir"
	"github.com/germanamz/promptgen/pkg/saver"
	"github.com/germanamz/promptgen/pkg/session"
)

// app holds everything resolved at startup that does not need credentials.
type app struct {
	dir     promptdir.Dir
	cfg     config.Config
	cats    *category.Registry
	mods    *models.Registry
	builder *prompt.Builder
	log     *slog.Logger
	closer  io.Closer
}

// loadApp resolves config, registries and logging.
// Config resolution: explicit flag → .promptgen/config.yaml → promptgen.yaml
// → built-in defaults with keys from the environment.
func loadApp(configPath, dirPath string, verbose bool) (*app, error) {
	d := promptdir.New(dirPath)

	cfg := config.Default()
	if path := resolveConfigPath(configPath, d); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cats, err := loadCategories(d)
	if err != nil {
		return nil, err
	}

	mods, err := models.New(cfg.Models...)
	if err != nil {
		return nil, err
	}

	log, closer, err := newLogger(d, verbose)
	if err != nil {
		return nil, err
	}

	return &app{
		dir:     d,
		cfg:     cfg,
		cats:    cats,
		mods:    mods,
		builder: prompt.NewBuilder(cfg.Placeholder),
		log:     log,
		closer:  closer,
	}, nil
}

// loadCategories uses .promptgen/categories.yaml when present, otherwise the
// built-in catalogue.
func loadCategories(d promptdir.Dir) (*category.Registry, error) {
	data, err := os.ReadFile(d.CategoriesPath())
	if errors.Is(err, os.ErrNotExist) {
		return category.Builtin()
	}
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	return category.Parse(data)
}

func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// newLogger writes to .promptgen/local/promptgen.log when the directory has
// been initialised, since the terminal belongs to the TUI. Otherwise logs are
// discarded.
func newLogger(d promptdir.Dir, verbose bool) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	if !d.Exists() {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}

	if err := promptdir.EnsureStructure(d); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(d.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// newController narrows the models to those with credentials, then wires
// the generation client and a fresh session controller. a.mods is replaced
// by the usable set so pickers only offer models that can run.
func (a *app) newController() (*session.Controller, *generate.Client, error) {
	usable, err := a.cfg.ResolveModels()
	if err != nil {
		return nil, nil, err
	}

	mods, err := models.New(usable...)
	if err != nil {
		return nil, nil, err
	}
	a.mods = mods

	used := mods.Providers()
	a.log.Debug("models resolved", "count", len(usable), "providers", used)

	timeout, err := a.cfg.TimeoutDuration()
	if err != nil {
		return nil, nil, err
	}

	client, err := generate.New(a.cfg.GenerateProviders(used), generate.Options{
		SystemPrompt: a.cfg.SystemPrompt,
		Timeout:      timeout,
		Logger:       a.log,
	})
	if err != nil {
		return nil, nil, err
	}

	ctrl := session.NewController(session.Deps{
		Categories: a.cats,
		Models:     a.mods,
		Builder:    a.builder,
		Generator:  client,
		Copier:     clipboard.System{},
		Saver:      saver.New(resolveSaveDir(a.cfg.SaveDir, a.dir)),
		Logger:     a.log,
	})

	return ctrl, client, nil
}
