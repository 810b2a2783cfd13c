package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/germanamz/promptgen/pkg/config"
	"github.com/germanamz/promptgen/pkg/models"
	"github.com/germanamz/promptgen/pkg/promptdir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadApp_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	a, err := loadApp("", promptdir.DefaultName, false)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	assert.Len(t, a.mods.List(), len(models.Defaults))
	_, err = a.cats.Get("bug-fix")
	require.NoError(t, err)
	assert.NoFileExists(t, a.dir.LogPath(), "no log file without an initialised dir")
}

func TestLoadApp_InitialisedDir(t *testing.T) {
	t.Chdir(t.TempDir())

	d := promptdir.New(promptdir.DefaultName)
	require.NoError(t, promptdir.Bootstrap(d, []byte(`
providers:
  - kind: openai
    api_key: sk-test
models:
  - id: Mini
    model: gpt-mini
    provider: openai
    max_tokens: 256
    temperature: 0.3
placeholder: "-"
`), false))
	require.NoError(t, os.WriteFile(d.CategoriesPath(), []byte(`
categories:
  - id: note
    name: Note
    fields:
      - name: text
        kind: multiline
        required: true
`), 0o600))

	a, err := loadApp("", promptdir.DefaultName, true)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	assert.Equal(t, []string{"note"}, a.cats.IDs())
	require.Len(t, a.mods.List(), 1)
	assert.Equal(t, "Mini", a.mods.List()[0].ID)
	assert.Equal(t, "-", a.builder.Placeholder)

	ctrl, client, err := a.newController()
	require.NoError(t, err)
	assert.NotNil(t, ctrl)
	assert.True(t, client.Supports(models.OpenAI))
	assert.False(t, client.Supports(models.Anthropic))

	a.log.Info("hello")
	data, err := os.ReadFile(d.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewController_MissingCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GROK_API_KEY", "")

	a, err := loadApp("", promptdir.DefaultName, false)
	require.NoError(t, err)

	_, _, err = a.newController()
	require.ErrorIs(t, err, config.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	assert.Contains(t, err.Error(), "GROK_API_KEY")
}

func TestNewController_WithoutGrokKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-anthropic")
	t.Setenv("GROK_API_KEY", "")

	a, err := loadApp("", promptdir.DefaultName, false)
	require.NoError(t, err)

	ctrl, client, err := a.newController()
	require.NoError(t, err)
	assert.NotNil(t, ctrl)

	assert.True(t, client.Supports(models.OpenAI))
	assert.True(t, client.Supports(models.Anthropic))
	assert.False(t, client.Supports(models.Grok))

	assert.Len(t, a.mods.List(), 4)
	_, err = a.mods.Get("Grok 3 Mini")
	assert.ErrorIs(t, err, models.ErrUnknownModel)
}

func TestNewController_ListedModelWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GROK_API_KEY", "")

	path := filepath.Join(t.TempDir(), "promptgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  - kind: openai
    api_key: ${OPENAI_API_KEY}
  - kind: grok
    api_key: ${GROK_API_KEY}
models:
  - id: Grok 3 Mini
    model: grok-3-mini
    provider: grok
    max_tokens: 4096
    temperature: 0.7
`), 0o600))

	a, err := loadApp(path, filepath.Join(t.TempDir(), ".promptgen"), false)
	require.NoError(t, err)

	_, _, err = a.newController()
	require.ErrorIs(t, err, config.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "GROK_API_KEY")
}

func TestLoadApp_BadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers:\n  - kind: gemini\n"), 0o600))

	_, err := loadApp(path, filepath.Join(t.TempDir(), ".promptgen"), false)
	assert.ErrorContains(t, err, "unknown kind")
}
