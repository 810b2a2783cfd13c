// Package category holds the registry of prompt categories and the input
// fields each one collects. The built-in catalogue is embedded YAML; a
// Registry is immutable once loaded.
package category

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var builtinYAML []byte

// ErrUnknownCategory is returned when a category id is not registered.
var ErrUnknownCategory = errors.New("unknown category")

// Kind is the input kind of a field.
type Kind string

const (
	KindText         Kind = "text"          // single-line free text
	KindMultiline    Kind = "multiline"     // multi-line free text
	KindCode         Kind = "code"          // free text rendered as a fenced block
	KindMultiSelect  Kind = "multi_select"  // ordered subset of Options
	KindSingleSelect Kind = "single_select" // one of Options
	KindNumber       Kind = "number"        // int or float64 within [Min, Max]
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindMultiline, KindCode, KindMultiSelect, KindSingleSelect, KindNumber:
		return true
	}
	return false
}

// IsSelect reports whether values of k must come from the field's Options.
func (k Kind) IsSelect() bool {
	return k == KindMultiSelect || k == KindSingleSelect
}

// IsText reports whether k is one of the free-text kinds.
func (k Kind) IsText() bool {
	return k == KindText || k == KindMultiline || k == KindCode
}

// Field describes one named input of a category.
type Field struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	Kind        Kind     `yaml:"kind"`
	Options     []string `yaml:"options,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	Min         *float64 `yaml:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// HasOption reports whether v is one of the field's options.
func (f Field) HasOption(v string) bool {
	return slices.Contains(f.Options, v)
}

// Category is a selectable prompt archetype.
type Category struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Intro       string  `yaml:"intro,omitempty"`
	Instruction string  `yaml:"instruction,omitempty"`
	Fields      []Field `yaml:"fields"`
}

// Field returns the field with the given name.
func (c Category) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values maps field names to collected values. Text and single-select values
// are strings, multi-select values are []string in selection order, numbers
// are int or float64.
type Values map[string]any

// Registry is an ordered, immutable set of categories.
type Registry struct {
	categories []Category
	byID       map[string]int
}

type catalogue struct {
	Categories []Category `yaml:"categories"`
}

// Builtin returns a Registry over the embedded catalogue.
func Builtin() (*Registry, error) {
	return Parse(builtinYAML)
}

// Parse decodes a YAML catalogue and validates it.
func Parse(data []byte) (*Registry, error) {
	var cat catalogue
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("category: parse catalogue: %w", err)
	}

	return New(cat.Categories...)
}

// New builds a Registry from categories, preserving their order.
func New(categories ...Category) (*Registry, error) {
	r := &Registry{byID: make(map[string]int, len(categories))}

	for _, c := range categories {
		if err := validate(c); err != nil {
			return nil, err
		}
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("category: duplicate id %q", c.ID)
		}

		r.byID[c.ID] = len(r.categories)
		r.categories = append(r.categories, clone(c))
	}

	return r, nil
}

func validate(c Category) error {
	if c.ID == "" {
		return errors.New("category: id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("category %q: name is required", c.ID)
	}
	if len(c.Fields) == 0 {
		return fmt.Errorf("category %q: at least one field is required", c.ID)
	}

	names := make(map[string]struct{}, len(c.Fields))
	for _, f := range c.Fields {
		if f.Name == "" {
			return fmt.Errorf("category %q: field name is required", c.ID)
		}
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("category %q: duplicate field %q", c.ID, f.Name)
		}
		names[f.Name] = struct{}{}

		if !f.Kind.Valid() {
			return fmt.Errorf("category %q: field %q: unknown kind %q", c.ID, f.Name, f.Kind)
		}
		if f.Kind.IsSelect() && len(f.Options) == 0 {
			return fmt.Errorf("category %q: field %q: options are required for %s", c.ID, f.Name, f.Kind)
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return fmt.Errorf("category %q: field %q: min is greater than max", c.ID, f.Name)
		}
	}

	return nil
}

// clone deep-copies c so callers cannot mutate registry state.
func clone(c Category) Category {
	fields := make([]Field, len(c.Fields))
	for i, f := range c.Fields {
		f.Options = slices.Clone(f.Options)
		fields[i] = f
	}
	c.Fields = fields
	return c
}

// List returns all categories in registration order.
func (r *Registry) List() []Category {
	out := make([]Category, len(r.categories))
	for i, c := range r.categories {
		out[i] = clone(c)
	}
	return out
}

// Get returns the category registered under id.
func (r *Registry) Get(id string) (Category, error) {
	i, ok := r.byID[id]
	if !ok {
		return Category{}, fmt.Errorf("category: %q: %w", id, ErrUnknownCategory)
	}
	return clone(r.categories[i]), nil
}

// FieldsFor returns the ordered field descriptors of the category id.
func (r *Registry) FieldsFor(id string) ([]Field, error) {
	c, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return c.Fields, nil
}

// IDs returns the registered category ids in order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.categories))
	for i, c := range r.categories {
		ids[i] = c.ID
	}
	return ids
}
