package main

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/Veraticus/rechain/pkg/acquire"
	"github.com/Veraticus/rechain/pkg/chain"
	"github.com/Veraticus/rechain/pkg/config"
	"github.com/Veraticus/rechain/pkg/filter"
	"github.com/Veraticus/rechain/pkg/interfaces"
	"github.com/Veraticus/rechain/pkg/logging"
)

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	Chain  *chain.Chain
	Source interfaces.Source
	Runner *filter.Runner
}

// NewDependencies creates all dependencies with the given configuration.
// Patterns are compiled here so a bad expression fails before any input is
// read.
func NewDependencies(cfg *config.Config, stdout, stderr io.Writer) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logging.New(cfg.Verbose, stderr),
	}

	c, err := chain.Compile(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	deps.Chain = c
	for i, stage := range c.Stages() {
		deps.Logger.Debug("compiled stage",
			zap.Int("index", i),
			zap.String("pattern", stage.Pattern),
			zap.Bool("narrows", stage.Narrows),
		)
	}

	fetcher := acquire.NewHTTPFetcher(cfg.Timeout, name+"/"+version)
	deps.Source = acquire.New(fetcher, deps.Logger)
	deps.Runner = filter.NewRunner(c, stdout, deps.Logger)

	return deps, nil
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.Logger != nil {
		_ = d.Logger.Sync() // Best effort
	}
}

// Application represents the main application
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Run acquires the target and filters it to stdout
func (a *Application) Run(ctx context.Context) error {
	in, err := a.deps.Source.Acquire(ctx, a.deps.Config.Target, a.deps.Config.Multiline)
	if err != nil {
		return err
	}

	_, err = a.deps.Runner.Run(ctx, in)
	return err
}
