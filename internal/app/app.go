// Package app implements the application layer for pbuild.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/pbuild/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/adapters/tui"       //nolint:depguard // Wired in app layer
	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/pbuild/internal/engine/coordinator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	// defaultConcurrency applies when neither a flag nor the workspace file sets one.
	defaultConcurrency = 1
	// instrumentationName names the tracer of build spans.
	instrumentationName = "pbuild"
)

// Tracer is a build tracer that flushes its spans on shutdown.
type Tracer interface {
	ports.Tracer
	Shutdown(ctx context.Context) error
}

// Recorder is a metrics recorder that can expose what it collected.
type Recorder interface {
	ports.Recorder
	Serve(ctx context.Context, addr string) error
}

// App represents the main application logic.
type App struct {
	loader   ports.ConfigLoader
	resolver ports.TargetResolver
	spawner  ports.ProcessSpawner
	hubs     ports.HubFactory
	recorder Recorder
	logger   ports.Logger

	renderer   ports.Renderer
	tracer     Tracer
	teaOptions []tea.ProgramOption
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.TargetResolver,
	spawner ports.ProcessSpawner,
	hubs ports.HubFactory,
	recorder Recorder,
	log ports.Logger,
) *App {
	return &App{
		loader:   loader,
		resolver: resolver,
		spawner:  spawner,
		hubs:     hubs,
		recorder: recorder,
		logger:   log,
	}
}

// WithRenderer makes every build report to r instead of a renderer chosen
// from the output mode.
func (a *App) WithRenderer(r ports.Renderer) *App {
	a.renderer = r
	return a
}

// WithTracer makes every build record its spans with t instead of a tracer
// reporting to the renderer.
func (a *App) WithTracer(t Tracer) *App {
	a.tracer = t
	return a
}

// WithTeaOptions adds bubbletea program options to the interactive renderer.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// Build assembles the targets of req and builds them in parallel, one worker
// process per target. A one-shot build returns once every target finished or
// the first one failed. A watch build runs until ctx is cancelled and then
// returns nil.
//
//nolint:cyclop // orchestration function
func (a *App) Build(ctx context.Context, req domain.BuildRequest) error {
	root := req.Root
	if root == "" {
		root = "."
	}

	// 1. Load the workspace configuration
	work, err := a.loader.LoadWorkFile(root)
	if err != nil {
		return zerr.Wrap(err, "failed to load workspace configuration")
	}

	spec, err := runSpec(req, work)
	if err != nil {
		return err
	}

	// 2. Assemble targets
	spec.Targets, err = a.resolver.Resolve(root, req.With, work.Packages, req.WithPackages)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve targets")
	}

	a.logger.Info(fmt.Sprintf("Starting parallel build (concurrency: %d, watch: %t)", spec.Concurrency, spec.Watch))

	metricsAddr := req.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = work.MetricsAddr
	}

	// 3. Initialize renderer and tracer
	renderer := a.newRenderer(req.Output)
	tracer := a.tracer
	if tracer == nil {
		tracer = telemetry.NewOTelTracer(instrumentationName, renderer)
	}
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()

	coord := coordinator.New(a.spawner, a.hubs, tracer, a.recorder, a.logger)

	// 4. Run renderer, metrics endpoint and coordinator concurrently
	g, gctx := errgroup.WithContext(ctx)
	metricsCtx, stopMetrics := context.WithCancel(gctx)
	defer stopMetrics()

	// Renderer Routine
	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	if metricsAddr != "" {
		g.Go(func() error {
			return a.recorder.Serve(metricsCtx, metricsAddr)
		})
	}

	// Coordinator Routine
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = zerr.New(fmt.Sprintf("coordinator panic: %v", r))
			}
			stopMetrics()
			_ = renderer.Stop()
		}()

		return coord.Run(gctx, spec)
	})

	err = g.Wait()
	cancelled := ctx.Err() != nil && errors.Is(err, ctx.Err())
	if spec.Watch && (cancelled || errors.Is(err, domain.ErrInterrupted)) {
		return nil
	}
	return err
}

// newRenderer picks the interactive view on a terminal and line output
// everywhere else, unless output forces one.
func (a *App) newRenderer(output string) ports.Renderer {
	if a.renderer != nil {
		return a.renderer
	}

	mode := detector.ResolveMode(detector.DetectEnvironment(), output)
	if mode == detector.ModeInteractive {
		opts := append([]tea.ProgramOption{
			tea.WithOutput(os.Stderr),
			tea.WithoutSignalHandler(),
		}, a.teaOptions...)
		return tui.NewRenderer(tui.NewModel(os.Stderr), opts...)
	}
	return linear.NewRenderer(os.Stdout, os.Stderr, detector.ColorProfile(mode))
}

// runSpec applies flags over the workspace file over the defaults.
func runSpec(req domain.BuildRequest, work *domain.WorkFile) (domain.RunSpec, error) {
	spec := domain.RunSpec{
		Concurrency:  defaultConcurrency,
		Watch:        req.Watch,
		WatchOptions: work.Watch,
		ReadyTimeout: domain.DefaultReadyTimeout,
	}

	switch {
	case req.Concurrency != 0:
		spec.Concurrency = req.Concurrency
	case work.Concurrency != 0:
		spec.Concurrency = work.Concurrency
	}

	switch {
	case req.ReadyTimeout != nil:
		spec.ReadyTimeout = *req.ReadyTimeout
	case work.ReadyTimeout != "":
		d, err := time.ParseDuration(work.ReadyTimeout)
		if err != nil {
			return domain.RunSpec{}, zerr.With(
				fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err),
				"field", "readyTimeout",
			)
		}
		spec.ReadyTimeout = d
	}

	return spec, nil
}
