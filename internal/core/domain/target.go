package domain

// Target identifies one build unit. It is the absolute path of the directory
// the worker builds in, and it doubles as the worker's address on the channel.
type Target string

// String returns the target as a plain string.
func (t Target) String() string {
	return string(t)
}

// NewTargets converts a string slice into targets, preserving order.
func NewTargets(paths []string) []Target {
	targets := make([]Target, len(paths))
	for i, p := range paths {
		targets[i] = Target(p)
	}
	return targets
}
