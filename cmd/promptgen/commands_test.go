package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/germanamz/promptgen/pkg/category"
	"github.com/germanamz/promptgen/pkg/models"
	"github.com/germanamz/promptgen/pkg/prompt"
	"github.com/germanamz/promptgen/pkg/promptdir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinCategories(t *testing.T) *category.Registry {
	t.Helper()

	r, err := category.Builtin()
	require.NoError(t, err)

	return r
}

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".promptgen")

	var out bytes.Buffer
	require.NoError(t, runInit(&out, dir, false))
	assert.Contains(t, out.String(), "Initialized")

	data, err := os.ReadFile(promptdir.New(dir).ConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "${ANTHROPIC_API_KEY}")

	require.ErrorIs(t, runInit(&out, dir, false), promptdir.ErrConfigExists)
	require.NoError(t, runInit(&out, dir, true))
}

func TestPrintList(t *testing.T) {
	var out bytes.Buffer
	printList(&out, builtinCategories(t).List(), models.Defaults, nil)

	s := out.String()
	assert.Contains(t, s, "  bug-fix\n    Bug Fix\n")
	assert.Contains(t, s, "- errorMessage (multiline, required)")
	assert.Contains(t, s, "- stepsToReproduce (multiline, optional)")
	assert.Contains(t, s, "  GPT-4\n    gpt-4-turbo-preview via openai")
	assert.Less(t, strings.Index(s, "Categories:"), strings.Index(s, "Models:"))
	assert.NotContains(t, s, "Saved prompts:")
}

func TestPrintList_SavedPrompts(t *testing.T) {
	d := promptdir.New(t.TempDir())
	require.NoError(t, os.MkdirAll(d.SavedDir(), 0o750))
	saved := filepath.Join(d.SavedDir(), "prompt-20250101-120000.txt")
	require.NoError(t, os.WriteFile(saved, []byte("x"), 0o600))

	var out bytes.Buffer
	printList(&out, builtinCategories(t).List(), models.Defaults, promptdir.SavedPrompts(d.SavedDir()))

	s := out.String()
	assert.Contains(t, s, "Saved prompts:\n\n  "+saved+"\n")
	assert.Less(t, strings.Index(s, "Models:"), strings.Index(s, "Saved prompts:"))
}

func TestRunBuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
errorMessage: "TypeError: x is undefined"
codeContext: x.foo()
expectedBehavior: should return 1
stepsToReproduce: call f()
`), 0o600))

	var out bytes.Buffer
	require.NoError(t, runBuild(&out, builtinCategories(t), prompt.NewBuilder(""), "bug-fix", path))

	s := out.String()
	for _, v := range []string{"TypeError: x is undefined", "x.foo()", "should return 1", "call f()"} {
		assert.Contains(t, s, v)
	}
	assert.Less(t, strings.Index(s, "TypeError"), strings.Index(s, "call f()"))
}

func TestRunBuild_Errors(t *testing.T) {
	cats := builtinCategories(t)
	b := prompt.NewBuilder("")

	var out bytes.Buffer
	require.ErrorIs(t, runBuild(&out, cats, b, "nope", "-"), category.ErrUnknownCategory)

	err := runBuild(&out, cats, b, "", "-")
	require.ErrorContains(t, err, "--category is required")
	assert.Contains(t, err.Error(), "bug-fix, ")

	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte("codeContext: x\n"), 0o600))
	require.ErrorIs(t, runBuild(&out, cats, b, "bug-fix", path), prompt.ErrIncompleteInput)

	require.ErrorContains(t, runBuild(&out, cats, b, "bug-fix", filepath.Join(t.TempDir(), "missing.yaml")), "read values")
}

func TestLoadValues_Normalizes(t *testing.T) {
	c, err := builtinCategories(t).Get("test-cases")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
testTypes: [Unit Tests, E2E Tests]
featureDescription: 42
testScenarios: true
coverageTarget: 80
edgeCases:
unknownField: 7
`), 0o600))

	values, err := loadValues(path, c)
	require.NoError(t, err)

	assert.Equal(t, []string{"Unit Tests", "E2E Tests"}, values["testTypes"])
	assert.Equal(t, "42", values["featureDescription"])
	assert.Equal(t, "true", values["testScenarios"])
	assert.Equal(t, 80, values["coverageTarget"])
	assert.Nil(t, values["edgeCases"])
	assert.Equal(t, 7, values["unknownField"])
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, []string{"Web"}, normalizeValue(category.KindMultiSelect, "Web"))
	assert.Equal(t, "3", normalizeValue(category.KindSingleSelect, 3))
	assert.InDelta(t, 0.5, normalizeValue(category.KindNumber, 0.5), 1e-9)
	assert.Equal(t, "oops", normalizeValue(category.KindNumber, "oops"), "number kinds keep strings for the builder to reject")
	assert.Nil(t, normalizeValue(category.KindText, nil))
}

func TestRunBuild_NumericScalarInTextField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
errorMessage: 404
codeContext: 1.5
expectedBehavior: 200
`), 0o600))

	var out bytes.Buffer
	require.NoError(t, runBuild(&out, builtinCategories(t), prompt.NewBuilder(""), "bug-fix", path))
	assert.Contains(t, out.String(), "404")
	assert.Contains(t, out.String(), "1.5")
}
