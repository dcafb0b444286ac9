package ports

import "time"

// Recorder collects coordinator metrics.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Recorder interface {
	// SetActiveWorkers reports the number of workers currently building.
	SetActiveWorkers(n int)
	// ObserveBuild records one reported build outcome of a target.
	ObserveBuild(target string, failed bool, d time.Duration)
	// IncRun counts a settled run by its outcome.
	IncRun(outcome string)
}
