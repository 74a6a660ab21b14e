package commands

import (
	"context"
	"fmt"

	"github.com/texsite/texsite/internal/config"
)

// ConvertAllCmd converts every configured release and writes the
// cross-version manifest.
type ConvertAllCmd struct {
	Force   bool `help:"Rebuild versions that are already built"`
	Workers int  `short:"w" help:"Override the configured worker count"`
}

func (c *ConvertAllCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if c.Force {
		cfg.Build.Force = true
	}
	if c.Workers > 0 {
		cfg.Build.Workers = c.Workers
	}

	runner, cleanup, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	results := runner.Run(context.Background())

	failed := 0
	for _, result := range results {
		switch {
		case result.Skipped:
			fmt.Printf("  [SKIP] %s: already built\n", result.Version)
		case result.Success():
			fmt.Printf("  [OK]   %s: %d/%d files\n",
				result.Version, result.TotalSuccesses(), result.TotalFiles())
		default:
			failed++
			fmt.Printf("  [FAIL] %s: %v\n", result.Version, result.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d versions failed", failed, len(results))
	}
	return nil
}
