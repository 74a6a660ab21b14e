// Package daemon runs the conversion pipeline on a fixed schedule and
// exposes an HTTP endpoint for health and metrics. It exists for the hosted
// deployment, where new upstream releases should appear on the site without
// anyone running the CLI.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/texsite/texsite/internal/config"
	"github.com/texsite/texsite/internal/metrics"
	"github.com/texsite/texsite/internal/pipeline"
)

// Daemon owns the scheduler and the HTTP listener.
type Daemon struct {
	cfg       *config.Config
	runner    *pipeline.Runner
	recorder  *metrics.PrometheusRecorder
	scheduler gocron.Scheduler
	server    *http.Server

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// New wires a Daemon around an existing pipeline runner. When recorder is
// non-nil its metrics are served on /metrics.
func New(cfg *config.Config, runner *pipeline.Runner, recorder *metrics.PrometheusRecorder) (*Daemon, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Daemon{
		cfg:       cfg,
		runner:    runner,
		recorder:  recorder,
		scheduler: scheduler,
	}, nil
}

// Run converts once immediately, then on every interval tick, until the
// context is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	interval := d.cfg.Daemon.Interval
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	_, err := d.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(d.convertAll, ctx),
		gocron.WithName("periodic-conversion"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule periodic conversion: %w", err)
	}

	d.startHTTP()
	d.scheduler.Start()
	slog.Info("Daemon started", "interval", interval, "listen", d.cfg.Daemon.Listen)

	// First pass runs right away; the scheduler only fires after interval.
	d.convertAll(ctx)

	<-ctx.Done()
	return d.shutdown()
}

// convertAll runs one full pipeline pass. Overlapping ticks are dropped.
func (d *Daemon) convertAll(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		slog.Warn("Skipping scheduled conversion, previous run still active")
		return
	}
	d.running = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.lastRun = time.Now()
		d.mu.Unlock()
	}()

	results := d.runner.Run(ctx)
	failed := 0
	for _, r := range results {
		if !r.Success() {
			failed++
		}
	}
	slog.Info("Scheduled conversion finished", "versions", len(results), "failed", failed)
}

// handler builds the HTTP surface: /healthz always, /metrics when a
// recorder is configured.
func (d *Daemon) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		d.mu.Lock()
		lastRun := d.lastRun
		d.mu.Unlock()

		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "ok\nlast_run: %s\n", lastRun.Format(time.RFC3339))
	})
	if d.recorder != nil {
		mux.Handle("/metrics", d.recorder.Handler())
	}
	return mux
}

// startHTTP serves the handler when a listen address is set.
func (d *Daemon) startHTTP() {
	listen := d.cfg.Daemon.Listen
	if listen == "" {
		return
	}

	d.server = &http.Server{Addr: listen, Handler: d.handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err)
		}
	}()
}

func (d *Daemon) shutdown() error {
	slog.Info("Daemon stopping")
	if err := d.scheduler.Shutdown(); err != nil {
		slog.Error("Scheduler shutdown failed", "error", err)
	}
	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return d.server.Shutdown(ctx)
	}
	return nil
}
