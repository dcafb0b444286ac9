// Package coordinator runs the parallel build state machine: it spawns one
// worker per target, waits for all of them to become ready, assigns work
// within the concurrency limit and folds the reported outcomes into one result.
package coordinator

import (
	"context"
	"sync/atomic"
	"time"

	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Coordinator starts runs. A Coordinator drives a single run.
type Coordinator struct {
	spawner  ports.ProcessSpawner
	hubs     ports.HubFactory
	tracer   ports.Tracer
	recorder ports.Recorder
	logger   ports.Logger
	now      func() time.Time
	started  atomic.Bool
}

// New creates a new Coordinator.
func New(
	spawner ports.ProcessSpawner,
	hubs ports.HubFactory,
	tracer ports.Tracer,
	recorder ports.Recorder,
	logger ports.Logger,
) *Coordinator {
	return &Coordinator{
		spawner:  spawner,
		hubs:     hubs,
		tracer:   tracer,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Run starts a run and waits for it to settle.
func (c *Coordinator) Run(ctx context.Context, spec domain.RunSpec) error {
	r, err := c.Start(ctx, spec)
	if err != nil {
		return err
	}
	<-r.Done()
	return r.Err()
}

// Start opens the message channel, spawns one worker per target and returns
// the pending run. Spawn failures are logged; the affected target never
// becomes ready and the readiness barrier reports it.
func (c *Coordinator) Start(ctx context.Context, spec domain.RunSpec) (*Run, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if !c.started.CompareAndSwap(false, true) {
		return nil, domain.ErrRunAlreadyStarted
	}

	hub, err := c.hubs.Listen(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open message channel")
	}

	r := newRun(c, spec, hub)
	c.tracer.EmitPlan(ctx, targetNames(spec.Targets))

	for i, target := range spec.Targets {
		proc, err := c.spawner.Spawn(ctx, target, hub.Address())
		if err != nil {
			r.log(target).Error(zerr.Wrap(err, "failed to spawn worker"))
			continue
		}
		r.handles[i] = proc
	}

	go r.loop(ctx)
	return r, nil
}

func targetNames(targets []domain.Target) []string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.String()
	}
	return names
}
