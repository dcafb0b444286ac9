package watcher

import (
	"path"
	"path/filepath"
	"strings"
)

// skipDirectories are never watched nor snapshotted.
var skipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// matcher decides whether a path relative to the watched directory is ignored.
// Patterns use path.Match syntax. A trailing "/**" matches a directory and
// everything below it, a leading "**/" matches at any depth, and a pattern
// without a slash is also tried against the base name.
type matcher struct {
	patterns []string
}

func newMatcher(patterns []string) matcher {
	return matcher{patterns: patterns}
}

func (m matcher) ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return false
	}
	for _, p := range m.patterns {
		if matchPattern(p, rel) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, rel string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		if strings.HasPrefix(prefix, "**/") {
			return matchAnyDepth(strings.TrimPrefix(prefix, "**/"), rel, true)
		}
		return rel == prefix || strings.HasPrefix(rel, prefix+"/")
	}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		return matchAnyDepth(rest, rel, false)
	}
	if ok, _ := path.Match(pattern, rel); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(rel))
		return ok
	}
	return false
}

// matchAnyDepth matches pattern against every trailing run of segments of rel.
// With dirPrefix set, it also matches leading runs so that everything below a
// matching directory is included.
func matchAnyDepth(pattern, rel string, dirPrefix bool) bool {
	segments := strings.Split(rel, "/")
	for i := range segments {
		if dirPrefix {
			for j := i + 1; j <= len(segments); j++ {
				if ok, _ := path.Match(pattern, strings.Join(segments[i:j], "/")); ok {
					return true
				}
			}
			continue
		}
		if ok, _ := path.Match(pattern, strings.Join(segments[i:], "/")); ok {
			return true
		}
	}
	return false
}
