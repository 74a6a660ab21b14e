package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/texsite/texsite/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Versions VersionsConfig `yaml:"versions"`
	DocSets  []DocSetInfo   `yaml:"doc_sets,omitempty"`
	Output   OutputConfig   `yaml:"output"`
	Pandoc   PandocConfig   `yaml:"pandoc"`
	Build    BuildConfig    `yaml:"build"`
	Site     SiteConfig     `yaml:"site"`
	Daemon   DaemonConfig   `yaml:"daemon"`
	Events   EventsConfig   `yaml:"events"`
}

// SourceConfig describes where the documentation corpus comes from.
// Either a git repository cloned per version tag, or a local tree.
type SourceConfig struct {
	RepoURL  string `yaml:"repo_url,omitempty"`
	LocalDir string `yaml:"local_dir,omitempty"`
	// ExcludeDirs under doc/ that are not documentation sets.
	ExcludeDirs []string `yaml:"exclude_dirs,omitempty"`
}

// VersionsConfig lists the release tags to convert.
type VersionsConfig struct {
	Targets []string `yaml:"targets"`
	Latest  string   `yaml:"latest,omitempty"`
}

// DocSetInfo maps a doc-set directory name to its display title and URL slug.
type DocSetInfo struct {
	Dir   string `yaml:"dir"`
	Title string `yaml:"title"`
	Slug  string `yaml:"slug"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory       string `yaml:"directory"`
	DeployDirectory string `yaml:"deploy_directory,omitempty"`
	Clean           bool   `yaml:"clean"`
}

// PandocConfig configures the external markup converter.
type PandocConfig struct {
	Binary  string        `yaml:"binary,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// BuildConfig controls orchestration across releases.
type BuildConfig struct {
	Workers  int    `yaml:"workers,omitempty"`
	Force    bool   `yaml:"force,omitempty"`
	StateDB  string `yaml:"state_db,omitempty"`
	SkipSite bool   `yaml:"skip_site,omitempty"`
}

// SiteConfig carries site-level settings written into the generated config.
type SiteConfig struct {
	Name       string `yaml:"name,omitempty"`
	MathJaxURL string `yaml:"mathjax_url,omitempty"`
}

// DaemonConfig configures periodic reconversion mode.
type DaemonConfig struct {
	Interval time.Duration `yaml:"interval,omitempty"`
	Listen   string        `yaml:"listen,omitempty"`
}

// EventsConfig configures optional build-event publishing.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for inconsistencies that would make
// every build fail.
func (c *Config) Validate() error {
	if c.Source.RepoURL == "" && c.Source.LocalDir == "" {
		return errors.ValidationFailed("source", "one of repo_url or local_dir is required")
	}
	if len(c.Versions.Targets) == 0 {
		return errors.ValidationFailed("versions.targets", "at least one target version is required")
	}
	seen := make(map[string]struct{}, len(c.DocSets))
	for _, ds := range c.DocSets {
		if ds.Dir == "" {
			return errors.ValidationFailed("doc_sets", "doc set entry missing dir")
		}
		if _, dup := seen[ds.Dir]; dup {
			return errors.ValidationFailed("doc_sets", "duplicate doc set dir "+ds.Dir)
		}
		seen[ds.Dir] = struct{}{}
	}
	return nil
}

// DocSetFor returns the configured title and slug for a doc-set directory
// name, or generated defaults for unknown sets.
func (c *Config) DocSetFor(dir string) DocSetInfo {
	for _, ds := range c.DocSets {
		if ds.Dir == dir {
			return ds
		}
	}
	return DocSetInfo{Dir: dir, Title: defaultTitle(dir), Slug: dir}
}

func defaultTitle(dir string) string {
	words := strings.Split(strings.ReplaceAll(dir, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// VersionShort converts a full version tag like "v25.2.0" to "v25.2".
func VersionShort(version string) string {
	parts := strings.Split(strings.TrimPrefix(version, "v"), ".")
	if len(parts) < 2 {
		return version
	}
	return fmt.Sprintf("v%s.%s", parts[0], parts[1])
}

// VersionTitle converts a version tag like "v25.2.0" to a display title "25.2.0".
func VersionTitle(version string) string {
	return strings.TrimPrefix(version, "v")
}
