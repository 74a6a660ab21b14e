package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/texsite/texsite/internal/config"
	"github.com/texsite/texsite/internal/pipeline"
	"github.com/texsite/texsite/internal/watch"
)

// WatchCmd reconverts a local source tree whenever its LaTeX files change.
type WatchCmd struct {
	Version string `arg:"" optional:"" help:"Version label for the output (defaults to the configured latest)"`
	Source  string `short:"s" help:"Source checkout to watch (defaults to source.local_dir)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if w.Source != "" {
		cfg.Source.LocalDir = w.Source
	}
	if cfg.Source.LocalDir == "" {
		return fmt.Errorf("watch mode needs a local source tree (set source.local_dir or --source)")
	}

	version := w.Version
	if version == "" {
		version = cfg.Versions.Latest
	}

	// Watch mode iterates; never skip because a previous pass succeeded.
	cfg.Build.Force = true
	cfg.Build.StateDB = ""

	runner, cleanup, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	outputDir := pipeline.OutputDirFor(cfg, version)
	rebuild := func(ctx context.Context) error {
		result := runner.ConvertVersion(ctx, cfg.Source.LocalDir, outputDir, version)
		return result.Err
	}

	watcher, err := watch.New(cfg.Source.LocalDir, rebuild)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Convert once up front so the watcher starts from a complete site.
	if err := rebuild(ctx); err != nil {
		return err
	}

	err = watcher.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
