package prompt_test

import (
	"strings"
	"testing"

	"github.com/germanamz/promptgen/pkg/category"
	"github.com/germanamz/promptgen/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCategory(t *testing.T, id string) category.Category {
	t.Helper()

	r, err := category.Builtin()
	require.NoError(t, err)

	c, err := r.Get(id)
	require.NoError(t, err)

	return c
}

func bugFixValues() category.Values {
	return category.Values{
		"errorMessage":     "TypeError: x is undefined",
		"codeContext":      "x.foo()",
		"expectedBehavior": "should return 1",
		"stepsToReproduce": "call f()",
	}
}

func TestBuild_BugFixScenario(t *testing.T) {
	c := mustCategory(t, "bug-fix")

	got, err := prompt.NewBuilder("").Build(c, bugFixValues())
	require.NoError(t, err)

	want := "Bug Fix Request:\n\n" +
		"Error Message: TypeError: x is undefined\n" +
		"Relevant Code:\n```\nx.foo()\n```\n" +
		"Expected Behavior: should return 1\n" +
		"Steps to Reproduce: call f()\n\n" +
		"Write a prompt asking for a diagnosis of the root cause and a minimal fix."
	assert.Equal(t, want, got)

	order := []string{"TypeError: x is undefined", "x.foo()", "should return 1", "call f()"}
	last := -1
	for _, v := range order {
		idx := strings.Index(got, v)
		require.GreaterOrEqual(t, idx, 0, "value %q missing", v)
		assert.Greater(t, idx, last, "value %q out of order", v)
		last = idx
	}
}

func TestBuild_Deterministic(t *testing.T) {
	r, err := category.Builtin()
	require.NoError(t, err)

	b := prompt.NewBuilder("")
	inputs := completeInputs()

	for _, c := range r.List() {
		values, ok := inputs[c.ID]
		require.True(t, ok, "no complete input for %s", c.ID)

		first, err := b.Build(c, values)
		require.NoError(t, err, c.ID)

		second, err := b.Build(c, values)
		require.NoError(t, err, c.ID)

		assert.Equal(t, first, second, c.ID)
	}
}

func TestBuild_MissingEachRequiredField(t *testing.T) {
	r, err := category.Builtin()
	require.NoError(t, err)

	b := prompt.NewBuilder("")
	inputs := completeInputs()

	for _, c := range r.List() {
		for _, f := range c.Fields {
			if !f.Required {
				continue
			}

			values := category.Values{}
			for k, v := range inputs[c.ID] {
				values[k] = v
			}
			delete(values, f.Name)

			_, err := b.Build(c, values)
			require.ErrorIs(t, err, prompt.ErrIncompleteInput, "%s/%s", c.ID, f.Name)

			var ie *prompt.IncompleteInputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, []string{f.Name}, ie.Missing, "%s/%s", c.ID, f.Name)
			assert.Equal(t, c.ID, ie.Category)
		}
	}
}

func TestBuild_MissingSeveralFields_DeclaredOrder(t *testing.T) {
	c := mustCategory(t, "bug-fix")

	_, err := prompt.NewBuilder("").Build(c, category.Values{
		"expectedBehavior": "works",
		"codeContext":      "   ",
	})

	var ie *prompt.IncompleteInputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []string{"errorMessage", "codeContext"}, ie.Missing)
	assert.Contains(t, err.Error(), "errorMessage, codeContext")
}

func TestBuild_MultiSelectPlaceholder(t *testing.T) {
	c := mustCategory(t, "cursor")
	values := completeInputs()["cursor"]
	values["databases"] = []string{}

	got, err := prompt.NewBuilder("").Build(c, values)
	require.NoError(t, err)
	assert.Contains(t, got, "Databases: None\n")

	got, err = prompt.NewBuilder("n/a").Build(c, values)
	require.NoError(t, err)
	assert.Contains(t, got, "Databases: n/a\n")
}

func TestBuild_MultiSelectKeepsSelectionOrder(t *testing.T) {
	c := mustCategory(t, "cursor")
	values := completeInputs()["cursor"]
	values["languages"] = []string{"Rust", "Go", "Python"}

	got, err := prompt.NewBuilder("").Build(c, values)
	require.NoError(t, err)
	assert.Contains(t, got, "Languages: Rust, Go, Python\n")
}

func TestBuild_EmptyOptionalCodeIsNotFenced(t *testing.T) {
	c := mustCategory(t, "documentation")
	values := completeInputs()["documentation"]
	delete(values, "codeExamples")

	got, err := prompt.NewBuilder("").Build(c, values)
	require.NoError(t, err)
	assert.Contains(t, got, "Code Examples: None")
	assert.NotContains(t, got, "```")
}

func TestBuild_CodeMatchingPlaceholderIsFenced(t *testing.T) {
	c := mustCategory(t, "bug-fix")
	values := bugFixValues()
	values["codeContext"] = "None"

	got, err := prompt.NewBuilder("").Build(c, values)
	require.NoError(t, err)
	assert.Contains(t, got, "Relevant Code:\n```\nNone\n```\n")
}

func TestBuild_Number(t *testing.T) {
	c := mustCategory(t, "test-cases")
	values := completeInputs()["test-cases"]

	values["coverageTarget"] = 80
	got, err := prompt.NewBuilder("").Build(c, values)
	require.NoError(t, err)
	assert.Contains(t, got, "Coverage Target (%): 80\n")

	values["coverageTarget"] = 0
	got, err = prompt.NewBuilder("").Build(c, values)
	require.NoError(t, err)
	assert.Contains(t, got, "Coverage Target (%): 0\n")

	values["coverageTarget"] = 150.5
	_, err = prompt.NewBuilder("").Build(c, values)
	assert.ErrorIs(t, err, prompt.ErrInvalidValue)
}

func TestBuild_InvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		category string
		field    string
		value    any
		reason   string
	}{
		{"single option not allowed", "code-review", "language", "COBOL", "not one of the allowed options"},
		{"multi option not allowed", "cursor", "languages", []string{"Go", "Haskell"}, "not one of the allowed options"},
		{"text wrong type", "bug-fix", "errorMessage", 42, "expected text"},
		{"multi wrong type", "cursor", "languages", "Go", "expected a list"},
		{"number wrong type", "test-cases", "coverageTarget", "eighty", "expected a number"},
		{"number below min", "test-cases", "coverageTarget", -1, "below the minimum"},
		{"unknown field", "bug-fix", "severity", "high", "unknown field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustCategory(t, tt.category)
			values := completeInputs()[tt.category]
			values[tt.field] = tt.value

			_, err := prompt.NewBuilder("").Build(c, values)

			var ive *prompt.InvalidValueError
			require.ErrorAs(t, err, &ive)
			assert.Equal(t, tt.field, ive.Field)
			assert.Contains(t, ive.Reason, tt.reason)
			assert.NotErrorIs(t, err, prompt.ErrIncompleteInput)
		})
	}
}

func TestBuild_MissingCheckedBeforeInvalid(t *testing.T) {
	c := mustCategory(t, "code-review")

	_, err := prompt.NewBuilder("").Build(c, category.Values{"language": "COBOL"})
	assert.ErrorIs(t, err, prompt.ErrIncompleteInput)
}

func TestBuild_CodeReviewLayout(t *testing.T) {
	c := mustCategory(t, "code-review")

	got, err := prompt.NewBuilder("").Build(c, category.Values{
		"language":    "Go",
		"reviewFocus": []string{"Security", "Performance"},
		"complexity":  "Advanced",
		"code":        "func main() {}\n",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "Code Review Request:\n\nLanguage: Go\nFocus Areas: Security, Performance\nComplexity: Advanced\nCode to Review:\n```\nfunc main() {}\n```\n"))
}

func TestZeroBuilder_UsesDefaultPlaceholder(t *testing.T) {
	c := mustCategory(t, "ui-ux")
	values := completeInputs()["ui-ux"]
	delete(values, "accessibility")

	var b prompt.Builder
	got, err := b.Build(c, values)
	require.NoError(t, err)
	assert.Contains(t, got, "Accessibility: None")
}

// completeInputs returns a fresh set of complete, valid values per built-in
// category.
func completeInputs() map[string]category.Values {
	return map[string]category.Values{
		"cursor": {
			"projectName":       "Shop",
			"projectGoal":       "An online shop",
			"languages":         []string{"Go", "TypeScript"},
			"frameworks":        []string{"React"},
			"databases":         []string{"PostgreSQL"},
			"apis":              "Stripe",
			"fileStructure":     "cmd/, pkg/",
			"namingConventions": "camelCase",
			"codeStyle":         "gofmt",
		},
		"code-review": {
			"language":    "Go",
			"reviewFocus": []string{"Security"},
			"complexity":  "Intermediate",
			"code":        "fmt.Println(x)",
		},
		"bug-fix": bugFixValues(),
		"documentation": {
			"docType":        "README",
			"targetAudience": []string{"Developers"},
			"contentScope":   "Installation and usage",
			"codeExamples":   "promptgen list",
		},
		"api": {
			"apiType":             "REST",
			"endpointDescription": "Create an order",
			"requestMethod":       "POST",
			"parameters":          "{items: [...]}",
			"authentication":      "JWT",
		},
		"database-query": {
			"dbType":         "PostgreSQL",
			"queryType":      "SELECT",
			"tableStructure": "orders(id, total)",
			"queryGoal":      "Top 10 orders by total",
		},
		"test-cases": {
			"testTypes":          []string{"Unit Tests"},
			"featureDescription": "Cart totals",
			"testScenarios":      "empty cart",
			"edgeCases":          "negative prices",
			"coverageTarget":     90,
		},
		"ui-ux": {
			"designType":         "Web App",
			"targetPlatform":     []string{"Web"},
			"designRequirements": "Dark mode",
			"userInteraction":    "Keyboard first",
			"accessibility":      []string{"WCAG 2.1"},
		},
		"other": {
			"prompt": "Summarise this repository",
		},
	}
}
