package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrBuildFailed is the aggregate failure of a one-shot run.
	ErrBuildFailed = zerr.New("an error occurred while building")

	// ErrBarrierTimeout is returned when not every worker announced readiness in time.
	ErrBarrierTimeout = zerr.New("workers did not become ready in time")

	// ErrChannelClosed is returned when the message channel closes while a run is pending.
	ErrChannelClosed = zerr.New("message channel closed")

	// ErrInvalidRun is returned when a run specification is rejected.
	ErrInvalidRun = zerr.New("invalid run")

	// ErrNoTargets is returned when a run is started without targets.
	ErrNoTargets = zerr.New("no targets to build")

	// ErrDuplicateTarget is returned when a target appears more than once in a run.
	ErrDuplicateTarget = zerr.New("duplicate target")

	// ErrInvalidConcurrency is returned when the concurrency limit is not positive.
	ErrInvalidConcurrency = zerr.New("concurrency must be a positive integer")

	// ErrRunAlreadyStarted is returned when a coordinator is asked to start a second run.
	ErrRunAlreadyStarted = zerr.New("run already started")

	// ErrTerminated marks builds that were still running when their run settled.
	ErrTerminated = zerr.New("terminated before completion")

	// ErrSpawnFailed is returned when a worker process cannot be launched.
	ErrSpawnFailed = zerr.New("failed to spawn worker process")

	// ErrTerminateFailed is returned when a worker process could not be signalled.
	ErrTerminateFailed = zerr.New("failed to terminate worker process")

	// ErrChannelListenFailed is returned when the coordinator cannot open the channel endpoint.
	ErrChannelListenFailed = zerr.New("failed to listen on message channel")

	// ErrChannelDialFailed is returned when a worker cannot reach the coordinator.
	ErrChannelDialFailed = zerr.New("failed to connect to message channel")

	// ErrChannelSendFailed is returned when a frame cannot be delivered.
	ErrChannelSendFailed = zerr.New("failed to send message")

	// ErrMalformedMessage is returned when a frame cannot be decoded.
	ErrMalformedMessage = zerr.New("malformed message")

	// ErrConfigReadFailed is returned when a configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when a configuration file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrTargetConfigNotFound is returned when a target directory has no build configuration.
	ErrTargetConfigNotFound = zerr.New("build configuration not found")

	// ErrEmptyCommand is returned when a build configuration declares no command.
	ErrEmptyCommand = zerr.New("build configuration has no command")

	// ErrRootNotFound is returned when the root directory cannot be resolved.
	ErrRootNotFound = zerr.New("failed to resolve root directory")

	// ErrCommandFailed is returned when the build command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrInterrupted is returned when the user quits the interactive view.
	ErrInterrupted = zerr.New("interrupted by user")

	// ErrWatcherFailed is returned when change detection cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")
)

// BuildError is the failure reason of a one-shot run: the first target that
// reported a failed build, with the error payload that target sent.
type BuildError struct {
	Target Target
	Reason string
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrBuildFailed.Error(), e.Target, e.Reason)
}

// Unwrap makes errors.Is(err, ErrBuildFailed) hold.
func (e *BuildError) Unwrap() error {
	return ErrBuildFailed
}
