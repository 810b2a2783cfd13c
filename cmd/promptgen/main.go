package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/germanamz/promptgen/pkg/prompt"
	"github.com/germanamz/promptgen/pkg/promptdir"
	"github.com/germanamz/promptgen/pkg/session"
)

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init":
			initCmd := flag.NewFlagSet("init", flag.ExitOnError)
			initCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: promptgen init [flags]\n\nInitialize a .promptgen directory with a default config.\n\nFlags:\n")
				initCmd.PrintDefaults()
			}
			dir := initCmd.String("dir", promptdir.DefaultName, "path to .promptgen directory")
			force := initCmd.Bool("force", false, "overwrite an existing config")
			_ = initCmd.Parse(os.Args[2:])

			exitOnErr(runInit(os.Stdout, *dir, *force))

			return
		case "list":
			listCmd := flag.NewFlagSet("list", flag.ExitOnError)
			listCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: promptgen list [flags]\n\nList prompt categories with their fields, and the available models.\n\nFlags:\n")
				listCmd.PrintDefaults()
			}
			cfgPath := listCmd.String("config", "", "path to configuration file")
			dir := listCmd.String("dir", promptdir.DefaultName, "path to .promptgen directory")
			envFile := listCmd.String("env", ".env", "path to .env file (ignored if missing)")
			_ = listCmd.Parse(os.Args[2:])

			exitOnErr(loadDotEnv(*envFile))

			a, err := loadApp(*cfgPath, *dir, false)
			exitOnErr(err)
			defer func() { _ = a.Close() }()

			printList(os.Stdout, a.cats.List(), a.mods.List(), promptdir.SavedPrompts(resolveSaveDir(a.cfg.SaveDir, a.dir)))

			return
		case "build":
			buildCmd := flag.NewFlagSet("build", flag.ExitOnError)
			buildCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: promptgen build --category ID --input values.yaml\n\nPrint the assembled prompt for a category without calling a model.\n\nFlags:\n")
				buildCmd.PrintDefaults()
			}
			cfgPath := buildCmd.String("config", "", "path to configuration file")
			dir := buildCmd.String("dir", promptdir.DefaultName, "path to .promptgen directory")
			categoryID := buildCmd.String("category", "", "category id (see promptgen list)")
			input := buildCmd.String("input", "-", "YAML file with field values (- for stdin)")
			_ = buildCmd.Parse(os.Args[2:])

			a, err := loadApp(*cfgPath, *dir, false)
			exitOnErr(err)
			defer func() { _ = a.Close() }()

			exitOnErr(runBuild(os.Stdout, a.cats, a.builder, *categoryID, *input))

			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: promptgen [flags]\n       promptgen <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  init    Initialize a .promptgen directory with a default config\n  list    List categories and models\n  build   Print the assembled prompt for a values file\n")
	}

	configPath := flag.String("config", "", "path to configuration file (default: .promptgen/config.yaml or promptgen.yaml)")
	dir := flag.String("dir", promptdir.DefaultName, "path to .promptgen directory")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	categoryID := flag.String("category", "", "category to start with")
	modelID := flag.String("model", "", "model to start with")
	verbose := flag.Bool("verbose", false, "write debug entries to the log file")
	flag.Parse()

	exitOnErr(loadDotEnv(*envFile))
	exitOnErr(run(*configPath, *dir, selection{categoryID: *categoryID, modelID: *modelID}, *verbose))
}

func exitOnErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func run(configPath, dirPath string, sel selection, verbose bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := loadApp(configPath, dirPath, verbose)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	// Credentials are checked before any form is shown.
	ctrl, client, err := a.newController()
	if err != nil {
		return err
	}

	if sel.categoryID != "" {
		if _, err := a.cats.Get(sel.categoryID); err != nil {
			return err
		}
	}
	if sel.modelID != "" {
		if _, err := a.mods.Get(sel.modelID); err != nil {
			return err
		}
	}

	skipPicker := sel.categoryID != "" && sel.modelID != ""

	var req session.Request

	for {
		if !skipPicker {
			if err := runSelectionForm(a.cats.List(), runnable(a.mods.List(), client.Supports), &sel); err != nil {
				return ignoreAbort(err)
			}
		}
		skipPicker = false

		cat, err := a.cats.Get(sel.categoryID)
		if err != nil {
			return err
		}
		m, err := a.mods.Get(sel.modelID)
		if err != nil {
			return err
		}

		prev := req.Values
		if req.Category != cat.ID {
			prev = nil
		}

		state := newFormState(cat, prev)
		if err := runFieldForm(state); err != nil {
			return ignoreAbort(err)
		}

		values, err := state.values()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		o := newOverrides(m, req)
		if err := runOverridesForm(m, &o); err != nil {
			return ignoreAbort(err)
		}

		req = session.Request{Category: cat.ID, Values: values, Model: m.ID}
		if err := o.apply(m, &req); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		ticket, err := ctrl.Begin(req)
		if errors.Is(err, prompt.ErrIncompleteInput) || errors.Is(err, prompt.ErrInvalidValue) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if err != nil {
			return err
		}

		title := fmt.Sprintf("%s · %s", cat.Name, m.ID)
		viewer := newViewer(ctx, ctrl, req, ticket, title, client.Usage)

		final, err := tea.NewProgram(viewer, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			return err
		}

		v, _ := final.(viewerModel)
		if v.action != actionEdit {
			if text := ctrl.Snapshot().Text(); text != "" {
				fmt.Println(text)
			}
			return nil
		}
	}
}

// ignoreAbort treats the user aborting a form (ctrl+c) as a clean exit.
func ignoreAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
