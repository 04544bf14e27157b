package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, FileName), []byte("backend: sqlite\nlist: work\n"), 0644)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, "work", cfg.List)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, "", cfg.List)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, FileName), []byte("{{bad yaml"), 0644)

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	for _, body := range []string{
		"backend: redis\n",
		"list: \"../etc\"\n",
		"log_level: loud\n",
		"log_format: xml\n",
	} {
		t.Run(body, func(t *testing.T) {
			dir := t.TempDir()
			os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644)
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Backend: "sqlite", List: "groceries", LogLevel: "debug", LogFormat: "json"}

	require.NoError(t, Save(dir, cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_CreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "subdir")
	cfg := &Config{List: "home"}

	require.NoError(t, Save(dir, cfg))
	_, err := os.Stat(filepath.Join(dir, FileName))
	assert.NoError(t, err)
}

func TestSet(t *testing.T) {
	cfg := &Config{}
	cfg.Defaults()

	require.NoError(t, cfg.Set("list", "work"))
	assert.Equal(t, "work", cfg.List)
	require.NoError(t, cfg.Set("backend", "sqlite"))
	assert.Equal(t, "sqlite", cfg.Backend)

	assert.Error(t, cfg.Set("colour", "blue"))
	assert.Error(t, cfg.Set("backend", "memory"))
	// a rejected value leaves the config unchanged
	assert.Equal(t, "sqlite", cfg.Backend)
}

func TestKeys_Sorted(t *testing.T) {
	assert.Equal(t, []string{"backend", "list", "log_format", "log_level"}, Keys())
}
