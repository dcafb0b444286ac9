package watcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pbuild/internal/adapters/watcher"
)

func TestIgnored(t *testing.T) {
	tests := []struct {
		pattern string
		rel     string
		want    bool
	}{
		{pattern: "dist/**", rel: "dist", want: true},
		{pattern: "dist/**", rel: "dist/app.js", want: true},
		{pattern: "dist/**", rel: "src/dist.go", want: false},
		{pattern: "*.log", rel: "debug.log", want: true},
		{pattern: "*.log", rel: "logs/debug.log", want: true},
		{pattern: "logs/*.log", rel: "debug.log", want: false},
		{pattern: "**/*.tmp", rel: "a/b/c.tmp", want: true},
		{pattern: "**/cache/**", rel: "pkg/cache/index", want: true},
		{pattern: "**/cache/**", rel: "pkg/caches/index", want: false},
		{pattern: "*.log", rel: ".", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, watcher.Ignored([]string{tt.pattern}, tt.rel))
		})
	}
}
