package domain

import "time"

// WorkFile is the optional workspace configuration found at the root.
type WorkFile struct {
	// Concurrency is the default concurrency limit.
	Concurrency int `yaml:"concurrency"`
	// ReadyTimeout bounds the readiness barrier, e.g. "30s". "0" disables it.
	ReadyTimeout string `yaml:"readyTimeout"`
	// Packages lists package directories, relative to the root, considered by --with-packages.
	Packages []string `yaml:"packages"`
	// Watch holds the default watch options forwarded to every worker.
	Watch *WatchOptions `yaml:"watch"`
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string `yaml:"metricsAddr"`
}

// TargetConfig is the build configuration of one target directory.
type TargetConfig struct {
	// Command is the argv of the build command.
	Command []string `yaml:"command"`
	// Environment adds variables to the build environment.
	Environment map[string]string `yaml:"environment"`
	// Watch overrides the watch options received with an assignment.
	Watch *WatchOptions `yaml:"watch"`
}

// BuildRequest is what the build command resolves before a run starts.
type BuildRequest struct {
	Root         string
	With         []string
	WithPackages bool
	Watch        bool
	Concurrency  int
	ReadyTimeout *time.Duration
	MetricsAddr  string
	// Output selects the renderer: "auto", "tui" or "linear".
	Output string
}
