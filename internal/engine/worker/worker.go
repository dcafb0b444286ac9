// Package worker implements the process that builds a single target on behalf
// of a coordinator.
package worker

import (
	"context"
	"strings"

	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Agent joins a coordinator's channel and builds its target when assigned.
type Agent struct {
	dialer  ports.ChannelDialer
	loader  ports.ConfigLoader
	builder ports.Builder
	watcher ports.Watcher
	logger  ports.Logger
}

// New creates a new Agent.
func New(
	dialer ports.ChannelDialer,
	loader ports.ConfigLoader,
	builder ports.Builder,
	watcher ports.Watcher,
	logger ports.Logger,
) *Agent {
	return &Agent{
		dialer:  dialer,
		loader:  loader,
		builder: builder,
		watcher: watcher,
		logger:  logger,
	}
}

// Serve announces readiness for target on the channel at addr and waits for
// its assignment. A one-shot assignment builds once and returns the build
// error, if any. A watch assignment rebuilds on every change until the
// channel closes or ctx is done. Assignments for other targets are ignored.
func (a *Agent) Serve(ctx context.Context, addr string, target domain.Target) error {
	client, err := a.dialer.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			a.logger.Warn(zerr.Wrap(cerr, "failed to leave message channel").Error())
		}
	}()

	if err := client.Send(domain.ReadyMessage(target)); err != nil {
		return err
	}

	frames := client.Receive()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-frames:
			if !ok {
				a.logger.Info("channel closed before an assignment arrived")
				return nil
			}
			if msg.Kind != domain.KindAssign || msg.Target != target {
				continue
			}
			if msg.Watch {
				return a.watch(ctx, client, target, msg.WatchOptions)
			}
			return a.once(ctx, client, target)
		}
	}
}

func (a *Agent) once(ctx context.Context, client ports.ChannelClient, target domain.Target) error {
	buildErr := a.buildAndReport(ctx, client, target)
	if buildErr != nil {
		return zerr.With(zerr.Wrap(buildErr, "build failed"), "target", target.String())
	}
	return nil
}

func (a *Agent) watch(
	ctx context.Context,
	client ports.ChannelClient,
	target domain.Target,
	assigned *domain.WatchOptions,
) error {
	opts := domain.WatchOptions{}.Merge(assigned)
	if cfg, err := a.loader.LoadTarget(target.String()); err == nil {
		opts = opts.Merge(cfg.Watch)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := a.watcher.Watch(watchCtx, target.String(), opts)
	if err != nil {
		_ = client.Send(domain.FailedMessage(target, err.Error()))
		return err
	}

	a.logger.Info("watching " + target.String() + " for changes")
	_ = a.buildAndReport(watchCtx, client, target)

	frames := client.Receive()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			a.logger.Info("change detected, rebuilding")
			_ = a.buildAndReport(watchCtx, client, target)
		case _, ok := <-frames:
			if !ok {
				return nil
			}
		}
	}
}

// buildAndReport runs one build and sends its outcome. The returned error is
// the build failure; failures to send are logged.
func (a *Agent) buildAndReport(ctx context.Context, client ports.ChannelClient, target domain.Target) error {
	output, err := a.build(ctx, target)

	msg := domain.CompletedMessage(target, output)
	if err != nil {
		msg = domain.FailedMessage(target, failurePayload(output, err))
	}
	if serr := client.Send(msg); serr != nil {
		a.logger.Error(zerr.Wrap(serr, "failed to report build outcome"))
	}
	return err
}

func (a *Agent) build(ctx context.Context, target domain.Target) (string, error) {
	cfg, err := a.loader.LoadTarget(target.String())
	if err != nil {
		return "", err
	}
	return a.builder.Build(ctx, target, cfg)
}

// failurePayload renders the error followed by whatever the build printed.
func failurePayload(output string, err error) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return err.Error()
	}
	return err.Error() + "\n" + output
}
