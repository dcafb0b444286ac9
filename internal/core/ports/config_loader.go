package ports

import "go.trai.ch/pbuild/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks

// ConfigLoader reads workspace and target configuration files.
type ConfigLoader interface {
	// LoadWorkFile reads the workspace file at root. A missing file yields an empty WorkFile.
	LoadWorkFile(root string) (*domain.WorkFile, error)
	// LoadTarget reads the build configuration of the target directory dir.
	LoadTarget(dir string) (*domain.TargetConfig, error)
}

// TargetResolver assembles the ordered target list of a run.
type TargetResolver interface {
	// Resolve returns packages (when withPackages is set), then with, then root,
	// as absolute paths without duplicates.
	Resolve(root string, with []string, packages []string, withPackages bool) ([]domain.Target, error)
}
