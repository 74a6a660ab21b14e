package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "texsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
source:
  repo_url: https://example.org/corpus.git
versions:
  targets: [v25.1.0, v25.2.0]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pandoc", cfg.Pandoc.Binary)
	assert.Equal(t, 60*time.Second, cfg.Pandoc.Timeout)
	assert.Equal(t, "build", cfg.Output.Directory)
	assert.Equal(t, 4, cfg.Build.Workers)
	assert.Equal(t, "v25.2.0", cfg.Versions.Latest, "latest defaults to the last target")
	assert.NotEmpty(t, cfg.DocSets)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_RequiresSourceAndVersions(t *testing.T) {
	path := writeConfig(t, `
output:
  directory: out
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("CORPUS_URL", "https://example.org/env.git")
	path := writeConfig(t, `
source:
  repo_url: ${CORPUS_URL}
versions:
  targets: [v1.0.0]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/env.git", cfg.Source.RepoURL)
}

func TestDocSetFor(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	known := cfg.DocSetFor("engineering-reference")
	assert.Equal(t, "Engineering Reference", known.Title)
	assert.Equal(t, "engineering-reference", known.Slug)

	unknown := cfg.DocSetFor("new-user-guide")
	assert.Equal(t, "New User Guide", unknown.Title)
	assert.Equal(t, "new-user-guide", unknown.Slug)
}

func TestVersionHelpers(t *testing.T) {
	assert.Equal(t, "v25.2", VersionShort("v25.2.0"))
	assert.Equal(t, "25.2.0", VersionTitle("v25.2.0"))
}
