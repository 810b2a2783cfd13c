// Package prompt assembles the prompt text for a category from collected
// field values. Building is pure: the same category and values always give
// the same text.
package prompt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/germanamz/promptgen/pkg/category"
)

// DefaultPlaceholder renders empty optional fields and empty multi-selects.
const DefaultPlaceholder = "None"

// Separator joins multi-select values.
const Separator = ", "

const fence = "```"

// layout is shared by every category; categories differ only in their field
// lists, intro and instruction.
const layout = `{{with .Intro}}{{.}}

{{end}}{{range .Lines}}{{if .Block}}{{.Label}}:
{{$.Fence}}
{{.Value}}
{{$.Fence}}
{{else}}{{.Label}}: {{.Value}}
{{end}}{{end}}{{with .Instruction}}
{{.}}
{{end}}`

var layoutTmpl = template.Must(template.New("prompt").Parse(layout))

type line struct {
	Label string
	Value string
	Block bool
}

type view struct {
	Intro       string
	Instruction string
	Lines       []line
	Fence       string
}

// Builder renders prompts. The zero value uses DefaultPlaceholder.
type Builder struct {
	Placeholder string
}

// NewBuilder returns a Builder with the given placeholder. An empty
// placeholder selects DefaultPlaceholder.
func NewBuilder(placeholder string) *Builder {
	return &Builder{Placeholder: placeholder}
}

func (b *Builder) placeholder() string {
	if b == nil || b.Placeholder == "" {
		return DefaultPlaceholder
	}
	return b.Placeholder
}

// Validate checks values against the category's fields without rendering.
// Missing required fields are reported together as *IncompleteInputError
// before any other check; otherwise the first bad value is returned as
// *InvalidValueError.
func (b *Builder) Validate(c category.Category, values category.Values) error {
	var missing []string
	for _, f := range c.Fields {
		if f.Required && isEmpty(values[f.Name]) {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &IncompleteInputError{Category: c.ID, Missing: missing}
	}

	for name := range values {
		if _, ok := c.Field(name); !ok {
			return &InvalidValueError{Category: c.ID, Field: name, Reason: "unknown field"}
		}
	}

	for _, f := range c.Fields {
		if _, err := b.render(c.ID, f, values[f.Name]); err != nil {
			return err
		}
	}

	return nil
}

// Build validates values and renders the category's prompt. Fields appear in
// the category's declared order.
func (b *Builder) Build(c category.Category, values category.Values) (string, error) {
	if err := b.Validate(c, values); err != nil {
		return "", err
	}

	v := view{
		Intro:       c.Intro,
		Instruction: c.Instruction,
		Fence:       fence,
	}

	for _, f := range c.Fields {
		raw := values[f.Name]
		text, err := b.render(c.ID, f, raw)
		if err != nil {
			return "", err
		}

		v.Lines = append(v.Lines, line{
			Label: labelOf(f),
			Value: text,
			Block: f.Kind == category.KindCode && !isEmpty(raw),
		})
	}

	var sb strings.Builder
	if err := layoutTmpl.Execute(&sb, v); err != nil {
		return "", fmt.Errorf("prompt: render %q: %w", c.ID, err)
	}

	return strings.TrimSpace(sb.String()), nil
}

func labelOf(f category.Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// render converts one value to its prompt text. Absent values of optional
// fields render the placeholder.
func (b *Builder) render(categoryID string, f category.Field, raw any) (string, error) {
	invalid := func(format string, args ...any) error {
		return &InvalidValueError{Category: categoryID, Field: f.Name, Reason: fmt.Sprintf(format, args...)}
	}

	if isEmpty(raw) {
		return b.placeholder(), nil
	}

	switch f.Kind {
	case category.KindText, category.KindMultiline, category.KindCode:
		s, ok := raw.(string)
		if !ok {
			return "", invalid("expected text, got %T", raw)
		}
		return strings.TrimSpace(s), nil

	case category.KindSingleSelect:
		s, ok := raw.(string)
		if !ok {
			return "", invalid("expected a single option, got %T", raw)
		}
		if !f.HasOption(s) {
			return "", invalid("%q is not one of the allowed options", s)
		}
		return s, nil

	case category.KindMultiSelect:
		items, ok := raw.([]string)
		if !ok {
			return "", invalid("expected a list of options, got %T", raw)
		}
		for _, it := range items {
			if !f.HasOption(it) {
				return "", invalid("%q is not one of the allowed options", it)
			}
		}
		return strings.Join(items, Separator), nil

	case category.KindNumber:
		n, ok := toFloat(raw)
		if !ok {
			return "", invalid("expected a number, got %T", raw)
		}
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return "", invalid("not a finite number")
		}
		if f.Min != nil && n < *f.Min {
			return "", invalid("%v is below the minimum %v", n, *f.Min)
		}
		if f.Max != nil && n > *f.Max {
			return "", invalid("%v is above the maximum %v", n, *f.Max)
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	}

	return "", invalid("unsupported kind %q", f.Kind)
}

// isEmpty reports whether a value counts as not provided. Zero is a valid
// number.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
