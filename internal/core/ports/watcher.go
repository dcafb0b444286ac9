package ports

import (
	"context"

	"go.trai.ch/pbuild/internal/core/domain"
)

// Watcher reports debounced changes below a directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch starts observing dir. The returned channel receives one value per
	// settled burst of changes and is closed when ctx is done.
	Watch(ctx context.Context, dir string, opts domain.WatchOptions) (<-chan struct{}, error)
}
