package config

import (
	"fmt"
	"os"
)

// starterConfig is the template written by Init. It carries the settings a
// new deployment usually edits first; everything omitted falls back to the
// defaults applied at load time.
const starterConfig = `# texsite configuration
source:
  # Corpus repository, cloned per version tag.
  repo_url: https://github.com/NREL/EnergyPlus.git
  # Or convert an existing checkout instead of cloning:
  # local_dir: /path/to/EnergyPlus

versions:
  targets:
    - v25.2.0
  latest: v25.2.0

output:
  directory: build
  deploy_directory: dist

pandoc:
  binary: pandoc
  timeout: 60s

build:
  workers: 4

site:
  name: EnergyPlus

daemon:
  interval: 6h
  listen: ":9184"

# Publish build events to NATS (optional):
# events:
#   nats_url: nats://localhost:4222
#   subject: texsite.builds
`

// Init writes a starter configuration file. Existing files are preserved
// unless force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", configPath)
	}
	return os.WriteFile(configPath, []byte(starterConfig), 0o644)
}
