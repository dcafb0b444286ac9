// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/pbuild/internal/core/domain"
)

// Builder performs one build of a target.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Builder interface {
	// Build runs cfg's command in the target directory and returns its output.
	// A failed build returns the output gathered so far together with the error.
	Build(ctx context.Context, target domain.Target, cfg *domain.TargetConfig) (string, error)
}
