// Package config loads workspace and target configuration and assembles the
// targets of a build.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader and ports.TargetResolver on the local
// filesystem.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// LoadWorkFile reads pbuild.work.yaml from root. A missing file yields an
// empty WorkFile.
func (l *Loader) LoadWorkFile(root string) (*domain.WorkFile, error) {
	path := filepath.Join(root, domain.WorkFileName)
	var wf domain.WorkFile
	if err := readAndUnmarshalYAML(path, &wf); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &domain.WorkFile{}, nil
		}
		return nil, err
	}
	return &wf, nil
}

// LoadTarget reads pbuild.yaml from the target directory dir.
func (l *Loader) LoadTarget(dir string) (*domain.TargetConfig, error) {
	path := filepath.Join(dir, domain.TargetFileName)
	var cfg domain.TargetConfig
	if err := readAndUnmarshalYAML(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrTargetConfigNotFound, "cannot load target"), "directory", dir)
		}
		return nil, err
	}
	if len(cfg.Command) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrEmptyCommand, "cannot load target"), "directory", dir)
	}
	return &cfg, nil
}

// Resolve assembles the targets of a build: the packages when withPackages is
// set, then the with paths, then root itself. Paths are resolved against root
// and the first occurrence of a directory wins.
func (l *Loader) Resolve(root string, with, packages []string, withPackages bool) ([]domain.Target, error) {
	absRoot, err := resolveRoot(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	if withPackages {
		pkgs, err := l.resolvePackages(absRoot, packages)
		if err != nil {
			return nil, err
		}
		paths = append(paths, pkgs...)
	}
	for _, w := range with {
		paths = append(paths, resolvePath(absRoot, w))
	}
	paths = append(paths, absRoot)

	targets := make([]domain.Target, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		targets = append(targets, domain.Target(p))
	}
	return targets, nil
}

// resolvePackages expands the package patterns and keeps the directories that
// carry a build configuration, with symlinks resolved.
func (l *Loader) resolvePackages(root string, patterns []string) ([]string, error) {
	var result []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(resolvePath(root, pattern))
		if err != nil {
			return nil, zerr.Wrap(err, "glob pattern failed: "+pattern)
		}
		if len(matches) == 0 {
			l.Logger.Warn(fmt.Sprintf("package %s not found, skipping", pattern))
			continue
		}
		slices.Sort(matches)

		for _, match := range matches {
			resolved, err := filepath.EvalSymlinks(match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to resolve package"), "package", match)
			}
			info, err := os.Stat(resolved)
			if err != nil || !info.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(resolved, domain.TargetFileName)); err != nil {
				l.Logger.Warn(fmt.Sprintf("%s missing in package %s, skipping", domain.TargetFileName, match))
				continue
			}
			result = append(result, resolved)
		}
	}
	return result, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(fmt.Errorf("%w: %w", domain.ErrRootNotFound, err), "root", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(fmt.Errorf("%w: %w", domain.ErrRootNotFound, err), "root", root)
	}
	if !info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrRootNotFound, "not a directory"), "root", root)
	}
	return abs, nil
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
// A missing file is reported with an error matching os.ErrNotExist.
func readAndUnmarshalYAML[T any](path string, target *T) error {
	// #nosec G304 -- path is built from a configured directory and a fixed file name
	data, err := os.ReadFile(path)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "path", path)
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, parseErr), "path", path)
	}
	return nil
}
