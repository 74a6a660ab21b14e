package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/texsite/texsite/internal/config"
	"github.com/texsite/texsite/internal/convert"
	"github.com/texsite/texsite/internal/events"
	"github.com/texsite/texsite/internal/metrics"
	"github.com/texsite/texsite/internal/site"
	"github.com/texsite/texsite/internal/state"
)

// Source materializes the source tree of one release and returns its path.
type Source interface {
	Checkout(ctx context.Context, version string) (string, error)
}

// LocalSource serves every version from a fixed directory, for working
// against an existing checkout.
type LocalSource struct {
	Dir string
}

func (s LocalSource) Checkout(context.Context, string) (string, error) {
	return s.Dir, nil
}

// Runner drives conversions. Store, Recorder and Publisher are optional
// collaborators; NewRunner fills them with inert defaults.
type Runner struct {
	Config    *config.Config
	Converter convert.Converter
	Source    Source
	Store     *state.Store
	Recorder  metrics.Recorder
	Publisher events.Publisher
}

// NewRunner wires a Runner with noop observability.
func NewRunner(cfg *config.Config, conv convert.Converter, source Source) *Runner {
	return &Runner{
		Config:    cfg,
		Converter: conv,
		Source:    source,
		Recorder:  metrics.NoopRecorder{},
		Publisher: events.NoopPublisher{},
	}
}

// Run converts every configured release, bounded by the worker setting, and
// writes the cross-version manifest afterwards. The returned results follow
// the configured version order.
func (p *Runner) Run(ctx context.Context) []VersionResult {
	versions := p.Config.Versions.Targets
	workers := p.Config.Build.Workers
	p.Recorder.SetWorkerCount(workers)

	outcomes := runOrdered(versions, workers, func(version string) (VersionResult, error) {
		return p.runVersion(ctx, version), nil
	})

	results := make([]VersionResult, 0, len(outcomes))
	for _, o := range outcomes {
		results = append(results, o.Value)
	}

	if err := p.writeManifest(); err != nil {
		slog.Error("Failed to write version manifest", "error", err)
	}
	return results
}

// runVersion handles one release: skip check, checkout, conversion, state
// recording and event publishing.
func (p *Runner) runVersion(ctx context.Context, version string) VersionResult {
	if p.Store != nil && !p.Config.Build.Force {
		built, err := p.Store.Built(ctx, version)
		if err != nil {
			slog.Warn("Build state unavailable", "version", version, "error", err)
		}
		if built {
			slog.Info("Skipping version, already built", "version", version)
			p.Recorder.IncVersionOutcome("skipped")
			return VersionResult{Version: version, Skipped: true}
		}
	}

	buildID := uuid.NewString()
	result := VersionResult{Version: version, BuildID: buildID}

	sourceDir, err := p.Source.Checkout(ctx, version)
	if err != nil {
		result.Err = err
	} else {
		result = p.ConvertVersion(ctx, sourceDir, OutputDirFor(p.Config, version), version)
		result.BuildID = buildID
	}

	p.finishVersion(ctx, &result)
	return result
}

// finishVersion records the outcome and publishes the build event.
func (p *Runner) finishVersion(ctx context.Context, result *VersionResult) {
	outcome := "success"
	errText := ""
	if !result.Success() {
		outcome = "failed"
		errText = result.Err.Error()
		slog.Error("Version conversion failed", "version", result.Version, "error", result.Err)
	}
	p.Recorder.IncVersionOutcome(outcome)
	p.Recorder.ObserveVersionDuration(result.Version, result.Duration)

	if p.Store != nil {
		err := p.Store.Record(ctx, state.BuildRecord{
			BuildID:    result.BuildID,
			Version:    result.Version,
			Success:    result.Success(),
			FilesTotal: result.TotalFiles(),
			FilesOK:    result.TotalSuccesses(),
			Error:      errText,
		})
		if err != nil {
			slog.Warn("Failed to record build state", "version", result.Version, "error", err)
		}
	}

	if err := p.Publisher.PublishBuild(events.BuildEvent{
		BuildID:    result.BuildID,
		Version:    result.Version,
		Success:    result.Success(),
		FilesTotal: result.TotalFiles(),
		FilesOK:    result.TotalSuccesses(),
		Error:      errText,
		FinishedAt: time.Now(),
	}); err != nil {
		slog.Warn("Failed to publish build event", "version", result.Version, "error", err)
	}
}

// writeManifest emits versions.json and the root redirect into the deploy
// directory, when one is configured.
func (p *Runner) writeManifest() error {
	deployDir := p.Config.Output.DeployDirectory
	if deployDir == "" {
		return nil
	}

	latest := p.latestVersion()
	if err := site.WriteVersionsManifest(deployDir, p.Config.Versions.Targets, latest); err != nil {
		return err
	}
	return site.WriteRootRedirect(deployDir, p.Config.Site.Name, latest)
}

func (p *Runner) latestVersion() string {
	if p.Config.Versions.Latest != "" {
		return p.Config.Versions.Latest
	}
	return p.Config.Versions.Targets[0]
}
