package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/germanamz/promptgen/pkg/category"
	"github.com/germanamz/promptgen/pkg/config"
	"github.com/germanamz/promptgen/pkg/models"
	"github.com/germanamz/promptgen/pkg/prompt"
	"github.com/germanamz/promptgen/pkg/promptdir"
	"gopkg.in/yaml.v3"
)

func runInit(w io.Writer, dirPath string, force bool) error {
	data, err := config.Template()
	if err != nil {
		return err
	}

	d := promptdir.New(dirPath)

	if err := promptdir.Bootstrap(d, data, force); err != nil {
		return err
	}

	fmt.Fprintf(w, "Initialized %s\n", d.Root())
	fmt.Fprintf(w, "Set %s, %s or %s (or add them to .env) for the providers you use.\n",
		config.EnvVars[models.OpenAI], config.EnvVars[models.Anthropic], config.EnvVars[models.Grok])

	return nil
}

// printList writes the categories with their fields, the models, and any
// saved prompt files.
func printList(w io.Writer, cats []category.Category, mods []models.ModelConfig, saved []string) {
	fmt.Fprintln(w, "Categories:")
	fmt.Fprintln(w)

	for _, c := range cats {
		fmt.Fprintf(w, "  %s\n", c.ID)
		fmt.Fprintf(w, "    %s\n", c.Name)

		for _, f := range c.Fields {
			req := "optional"
			if f.Required {
				req = "required"
			}

			detail := string(f.Kind)
			if len(f.Options) > 0 {
				detail += ": " + strings.Join(f.Options, " | ")
			}

			fmt.Fprintf(w, "    - %s (%s, %s)\n", f.Name, detail, req)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Models:")
	fmt.Fprintln(w)

	for _, m := range mods {
		fmt.Fprintf(w, "  %s\n", m.ID)
		fmt.Fprintf(w, "    %s via %s · max tokens %d · temperature %v\n", m.Model, m.Provider, m.MaxTokens, m.Temperature)
	}

	if len(saved) == 0 {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Saved prompts:")
	fmt.Fprintln(w)

	for _, path := range saved {
		fmt.Fprintf(w, "  %s\n", path)
	}
}

// runBuild assembles the prompt for categoryID from a YAML values file and
// writes it to w without calling any provider.
func runBuild(w io.Writer, cats *category.Registry, b *prompt.Builder, categoryID, inputPath string) error {
	if categoryID == "" {
		return fmt.Errorf("build: --category is required, one of: %s", strings.Join(cats.IDs(), ", "))
	}

	c, err := cats.Get(categoryID)
	if err != nil {
		return err
	}

	values, err := loadValues(inputPath, c)
	if err != nil {
		return err
	}

	text, err := b.Build(c, values)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, text)

	return nil
}

// loadValues reads a YAML mapping of field name to value and shapes each
// value for its field in c.
func loadValues(path string, c category.Category) (category.Values, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // path is a CLI argument
	}
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}

	values := make(category.Values, len(raw))
	for name, v := range raw {
		f, ok := c.Field(name)
		if !ok {
			// Left as decoded; the builder reports the unknown field.
			values[name] = v
			continue
		}
		values[name] = normalizeValue(f.Kind, v)
	}

	return values, nil
}

// normalizeValue converts YAML scalars to what the builder expects for kind.
// A bare 42 under a text or single-select field becomes "42"; a sequence
// becomes []string; a single scalar under a multi-select becomes a one-item
// list. Numbers are left as int or float64.
func normalizeValue(kind category.Kind, v any) any {
	if v == nil {
		return nil
	}

	switch {
	case kind == category.KindMultiSelect:
		if items, ok := v.([]any); ok {
			out := make([]string, 0, len(items))
			for _, item := range items {
				out = append(out, fmt.Sprint(item))
			}
			return out
		}
		return []string{fmt.Sprint(v)}

	case kind.IsText(), kind == category.KindSingleSelect:
		return fmt.Sprint(v)
	}

	return v
}
