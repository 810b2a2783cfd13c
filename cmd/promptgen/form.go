package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/germanamz/promptgen/pkg/category"
	"github.com/germanamz/promptgen/pkg/models"
	"github.com/germanamz/promptgen/pkg/session"
)

// fieldInput binds one category field to the widget value huh writes into.
type fieldInput struct {
	field    category.Field
	text     string   // text kinds, single select and number
	selected []string // multi select
}

// formState holds the in-progress answers for one category.
type formState struct {
	category category.Category
	inputs   []*fieldInput
}

// newFormState prepares answers for c, pre-filled from prev (e.g. when the
// user goes back to edit a submitted request).
func newFormState(c category.Category, prev category.Values) *formState {
	s := &formState{category: c}

	for _, f := range c.Fields {
		in := &fieldInput{field: f}

		switch v := prev[f.Name].(type) {
		case string:
			in.text = v
		case []string:
			in.selected = append([]string(nil), v...)
		case int:
			in.text = strconv.Itoa(v)
		case float64:
			in.text = strconv.FormatFloat(v, 'f', -1, 64)
		}

		s.inputs = append(s.inputs, in)
	}

	return s
}

// values converts the answers into category values. Empty answers are left
// out so the builder decides between placeholder and missing-field errors.
func (s *formState) values() (category.Values, error) {
	out := make(category.Values, len(s.inputs))

	for _, in := range s.inputs {
		switch {
		case in.field.Kind == category.KindMultiSelect:
			if len(in.selected) > 0 {
				out[in.field.Name] = append([]string(nil), in.selected...)
			}
		case in.field.Kind == category.KindNumber:
			raw := strings.TrimSpace(in.text)
			if raw == "" {
				continue
			}
			n, err := parseNumber(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", labelOf(in.field), err)
			}
			out[in.field.Name] = n
		default:
			if strings.TrimSpace(in.text) != "" {
				out[in.field.Name] = in.text
			}
		}
	}

	return out, nil
}

// parseNumber returns an int when raw is integral, otherwise a float64.
func parseNumber(raw string) (any, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	return f, nil
}

func labelOf(f category.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func titleOf(f category.Field) string {
	if f.Required {
		return labelOf(f) + " *"
	}
	return labelOf(f)
}

var errRequired = errors.New("this field is required")

func validateRequiredText(required bool) func(string) error {
	return func(s string) error {
		if required && strings.TrimSpace(s) == "" {
			return errRequired
		}
		return nil
	}
}

// validateNumber checks a number answer against the field's range.
func validateNumber(f category.Field) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if f.Required {
				return errRequired
			}
			return nil
		}
		v, err := parseNumber(s)
		if err != nil {
			return err
		}
		var x float64
		switch n := v.(type) {
		case int:
			x = float64(n)
		case float64:
			x = n
		}
		if f.Min != nil && x < *f.Min {
			return fmt.Errorf("must be at least %v", *f.Min)
		}
		if f.Max != nil && x > *f.Max {
			return fmt.Errorf("must be at most %v", *f.Max)
		}
		return nil
	}
}

// huhFields builds one huh field per category field, in declared order.
func (s *formState) huhFields() []huh.Field {
	fields := make([]huh.Field, 0, len(s.inputs))

	for _, in := range s.inputs {
		f := in.field

		switch f.Kind {
		case category.KindText:
			fields = append(fields, huh.NewInput().
				Title(titleOf(f)).
				Description(f.Description).
				Value(&in.text).
				Validate(validateRequiredText(f.Required)))

		case category.KindMultiline, category.KindCode:
			fields = append(fields, huh.NewText().
				Title(titleOf(f)).
				Description(f.Description).
				Value(&in.text).
				Validate(validateRequiredText(f.Required)))

		case category.KindSingleSelect:
			opts := huh.NewOptions(f.Options...)
			if !f.Required {
				opts = append([]huh.Option[string]{huh.NewOption("(none)", "")}, opts...)
			} else if in.text == "" && len(f.Options) > 0 {
				in.text = f.Options[0]
			}
			fields = append(fields, huh.NewSelect[string]().
				Title(titleOf(f)).
				Description(f.Description).
				Options(opts...).
				Value(&in.text))

		case category.KindMultiSelect:
			required := f.Required
			fields = append(fields, huh.NewMultiSelect[string]().
				Title(titleOf(f)).
				Description(multiSelectDescription(f.Description)).
				Options(huh.NewOptions(f.Options...)...).
				Value(&in.selected).
				Validate(func(sel []string) error {
					if required && len(sel) == 0 {
						return errors.New("select at least one option")
					}
					return nil
				}))

		case category.KindNumber:
			fields = append(fields, huh.NewInput().
				Title(titleOf(f)).
				Description(f.Description).
				Value(&in.text).
				Validate(validateNumber(f)))
		}
	}

	return fields
}

// runFieldForm asks for the fields of s.category.
func runFieldForm(s *formState) error {
	fields := s.huhFields()
	if len(fields) == 0 {
		return nil
	}

	return huh.NewForm(huh.NewGroup(fields...).
		Title(s.category.Name).
		Description(s.category.Intro)).
		Run()
}

// selection is the category and model the user picked.
type selection struct {
	categoryID string
	modelID    string
}

// multiSelectOrderNote tells the user how choices are ordered in the
// prompt: huh reports a multi-select in option order, not in click order.
const multiSelectOrderNote = "Selections appear in the prompt in the order listed."

func multiSelectDescription(desc string) string {
	if desc == "" {
		return multiSelectOrderNote
	}
	return desc + " " + multiSelectOrderNote
}

// runnable keeps the models whose provider the client can reach.
func runnable(list []models.ModelConfig, supports func(models.Provider) bool) []models.ModelConfig {
	return slices.DeleteFunc(slices.Clone(list), func(m models.ModelConfig) bool {
		return !supports(m.Provider)
	})
}

// runSelectionForm asks for the category and model. Values already set in sel
// (from flags) are used as the initial choice.
func runSelectionForm(cats []category.Category, mods []models.ModelConfig, sel *selection) error {
	catOpts := make([]huh.Option[string], len(cats))
	for i, c := range cats {
		catOpts[i] = huh.NewOption(c.Name, c.ID)
	}

	modOpts := make([]huh.Option[string], len(mods))
	for i, m := range mods {
		modOpts[i] = huh.NewOption(fmt.Sprintf("%s (%s)", m.ID, m.Provider), m.ID)
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Prompt category").Options(catOpts...).Value(&sel.categoryID),
		huh.NewSelect[string]().Title("Model").Options(modOpts...).Value(&sel.modelID),
	)).Run()
}

// overrides holds the optional generation parameter answers as text.
type overrides struct {
	adjust      bool
	temperature string
	maxTokens   string
}

func newOverrides(m models.ModelConfig, req session.Request) overrides {
	o := overrides{
		temperature: strconv.FormatFloat(m.Temperature, 'f', -1, 64),
		maxTokens:   strconv.Itoa(m.MaxTokens),
	}
	if req.Temperature != nil {
		o.adjust = true
		o.temperature = strconv.FormatFloat(*req.Temperature, 'f', -1, 64)
	}
	if req.MaxTokens != nil {
		o.adjust = true
		o.maxTokens = strconv.Itoa(*req.MaxTokens)
	}
	return o
}

// apply writes the parsed overrides into req. Values equal to the model
// defaults are kept as overrides too; Params treats them the same.
func (o overrides) apply(m models.ModelConfig, req *session.Request) error {
	req.Temperature, req.MaxTokens = nil, nil
	if !o.adjust {
		return nil
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(o.temperature), 64)
	if err != nil {
		return fmt.Errorf("temperature: %q is not a number", o.temperature)
	}
	n, err := strconv.Atoi(strings.TrimSpace(o.maxTokens))
	if err != nil {
		return fmt.Errorf("max tokens: %q is not an integer", o.maxTokens)
	}

	if _, _, err := m.Params(&t, &n); err != nil {
		return err
	}

	req.Temperature, req.MaxTokens = &t, &n

	return nil
}

func validateTemperature(s string) error {
	t, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("must be a number")
	}
	if t < models.MinTemperature || t > models.MaxTemperature {
		return fmt.Errorf("must be between %v and %v", models.MinTemperature, models.MaxTemperature)
	}
	return nil
}

func validateMaxTokens(limit int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("must be an integer")
		}
		if n < 1 || n > limit {
			return fmt.Errorf("must be between 1 and %d", limit)
		}
		return nil
	}
}

// runOverridesForm asks whether to change the model's default temperature
// and max tokens.
func runOverridesForm(m models.ModelConfig, o *overrides) error {
	if err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Adjust generation parameters?").
			Description(fmt.Sprintf("Defaults for %s: temperature %v, max tokens %d", m.ID, m.Temperature, m.MaxTokens)).
			Value(&o.adjust),
	)).Run(); err != nil {
		return err
	}

	if !o.adjust {
		return nil
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Temperature (0-1)").Value(&o.temperature).Validate(validateTemperature),
		huh.NewInput().Title(fmt.Sprintf("Max tokens (1-%d)", m.MaxTokens)).Value(&o.maxTokens).Validate(validateMaxTokens(m.MaxTokens)),
	)).Run()
}
