package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/texsite/texsite/internal/config"
	"github.com/texsite/texsite/internal/pipeline"
)

// ConvertCmd converts one release end to end.
type ConvertCmd struct {
	Version string `arg:"" help:"Release tag to convert (e.g. v25.2.0)"`
	Source  string `short:"s" help:"Use an existing source checkout instead of cloning"`
	Output  string `short:"o" help:"Override the output directory for this version"`
	Force   bool   `help:"Convert even when the version is already built"`
}

func (c *ConvertCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if c.Source != "" {
		cfg.Source.LocalDir = c.Source
	}
	if c.Force {
		cfg.Build.Force = true
	}

	runner, cleanup, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	sourceDir, err := runner.Source.Checkout(ctx, c.Version)
	if err != nil {
		return err
	}

	outputDir := c.Output
	if outputDir == "" {
		outputDir = pipeline.OutputDirFor(cfg, c.Version)
	}

	result := runner.ConvertVersion(ctx, sourceDir, outputDir, c.Version)
	printVersionSummary(result)
	if result.Err != nil {
		return result.Err
	}
	if result.TotalFiles() > 0 && result.TotalSuccesses() == 0 {
		return fmt.Errorf("no files converted for %s", c.Version)
	}
	slog.Info("Conversion complete", "version", c.Version, "output", outputDir)
	return nil
}

// printVersionSummary writes the per-set outcome table to stdout.
func printVersionSummary(result pipeline.VersionResult) {
	fmt.Printf("\nConversion summary: %s\n", result.Version)
	for _, setResult := range result.Sets {
		status := "OK"
		if setResult.Failures() > 0 {
			status = "WARN"
		}
		fmt.Printf("  [%s] %s: %d/%d files\n",
			status, setResult.Set.Title, setResult.Successes(), len(setResult.Files))
		for _, fr := range setResult.Files {
			if !fr.Success() {
				fmt.Printf("        FAIL %s: %v\n", fr.Source, fr.Err)
			}
		}
	}
	fmt.Printf("Total: %d/%d files converted\n", result.TotalSuccesses(), result.TotalFiles())
}
