package watcher

// Ignored reports whether rel is ignored by patterns.
func Ignored(patterns []string, rel string) bool {
	return newMatcher(patterns).ignored(rel)
}

// SnapshotDir snapshots dir with the given ignore patterns.
func SnapshotDir(dir string, patterns []string) (uint64, error) {
	return snapshot(dir, newMatcher(patterns))
}
