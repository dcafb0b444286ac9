package domain

import "time"

// DefaultAggregateTimeout is the debounce interval applied when none is configured.
const DefaultAggregateTimeout = 300 * time.Millisecond

// WatchOptions tunes change detection in watch mode. Durations are in
// milliseconds so the options travel unchanged inside Assign frames.
type WatchOptions struct {
	// AggregateTimeout delays a rebuild until no further change arrived for this long.
	AggregateTimeout int `json:"aggregateTimeout,omitempty" yaml:"aggregateTimeout"`
	// Poll switches change detection to polling with the given interval when positive.
	Poll int `json:"poll,omitempty" yaml:"poll"`
	// Ignored lists glob patterns, relative to the target, that never trigger a rebuild.
	Ignored []string `json:"ignored,omitempty" yaml:"ignored"`
}

// Merge returns a copy of o with every field set in override taking precedence.
func (o WatchOptions) Merge(override *WatchOptions) WatchOptions {
	merged := WatchOptions{
		AggregateTimeout: o.AggregateTimeout,
		Poll:             o.Poll,
		Ignored:          append([]string(nil), o.Ignored...),
	}
	if override == nil {
		return merged
	}
	if override.AggregateTimeout > 0 {
		merged.AggregateTimeout = override.AggregateTimeout
	}
	if override.Poll > 0 {
		merged.Poll = override.Poll
	}
	if len(override.Ignored) > 0 {
		merged.Ignored = append(merged.Ignored, override.Ignored...)
	}
	return merged
}

// Debounce returns the aggregate timeout as a duration, falling back to
// DefaultAggregateTimeout.
func (o WatchOptions) Debounce() time.Duration {
	if o.AggregateTimeout <= 0 {
		return DefaultAggregateTimeout
	}
	return time.Duration(o.AggregateTimeout) * time.Millisecond
}

// PollInterval returns the polling interval, or zero when event-based detection is used.
func (o WatchOptions) PollInterval() time.Duration {
	if o.Poll <= 0 {
		return 0
	}
	return time.Duration(o.Poll) * time.Millisecond
}
