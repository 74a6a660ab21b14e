package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/texsite/texsite/internal/config"
	"github.com/texsite/texsite/internal/daemon"
	"github.com/texsite/texsite/internal/metrics"
)

// DaemonCmd runs conversions on the configured interval.
type DaemonCmd struct {
	Listen string `help:"Override the health/metrics listen address"`
}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if d.Listen != "" {
		cfg.Daemon.Listen = d.Listen
	}

	runner, cleanup, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	recorder := metrics.NewPrometheusRecorder(nil)
	runner.Recorder = recorder

	dmn, err := daemon.New(cfg, runner, recorder)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = dmn.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
