package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/texsite/texsite/internal/config"
	"github.com/texsite/texsite/internal/convert"
	"github.com/texsite/texsite/internal/events"
	"github.com/texsite/texsite/internal/gitsource"
	"github.com/texsite/texsite/internal/pipeline"
	"github.com/texsite/texsite/internal/state"
)

// Global carries state shared across subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"texsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Convert    ConvertCmd    `cmd:"" help:"Convert a single release"`
	ConvertAll ConvertAllCmd `cmd:"" name:"convert-all" help:"Convert every configured release and write the version manifest"`
	Watch      WatchCmd      `cmd:"" help:"Watch a local source tree and reconvert on change"`
	Daemon     DaemonCmd     `cmd:"" help:"Run periodic conversions with health and metrics endpoints"`
	Init       InitCmd       `cmd:"" help:"Write a starter configuration file"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newRunner wires a pipeline runner from configuration. The returned cleanup
// closes the state store and the event publisher.
func newRunner(cfg *config.Config) (*pipeline.Runner, func(), error) {
	var source pipeline.Source
	if cfg.Source.LocalDir != "" {
		source = pipeline.LocalSource{Dir: cfg.Source.LocalDir}
	} else {
		client := gitsource.NewClient("workspace", cfg.Source.RepoURL)
		client.ShallowDepth = 1
		source = client
	}

	runner := pipeline.NewRunner(cfg,
		convert.NewPandoc(cfg.Pandoc.Binary, cfg.Pandoc.Timeout), source)

	cleanups := make([]func(), 0, 2)
	if cfg.Build.StateDB != "" {
		store, err := state.Open(cfg.Build.StateDB)
		if err != nil {
			return nil, nil, err
		}
		runner.Store = store
		cleanups = append(cleanups, func() { _ = store.Close() })
	}

	if cfg.Events.NATSURL != "" {
		publisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			for _, c := range cleanups {
				c()
			}
			return nil, nil, err
		}
		runner.Publisher = publisher
		cleanups = append(cleanups, publisher.Close)
	}

	cleanup := func() {
		for _, c := range cleanups {
			c()
		}
	}
	return runner, cleanup, nil
}
