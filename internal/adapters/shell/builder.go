// Package shell runs target build commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/creack/pty"
	"github.com/joho/godotenv"
	"go.trai.ch/pbuild/internal/core/domain"
	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder implements ports.Builder by running the configured command in a PTY.
type Builder struct {
	logger ports.Logger
}

// NewBuilder creates a new Builder.
func NewBuilder(logger ports.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build runs cfg.Command in the target directory and returns its combined
// output.
func (b *Builder) Build(ctx context.Context, target domain.Target, cfg *domain.TargetConfig) (string, error) {
	if cfg == nil || len(cfg.Command) == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrEmptyCommand, "cannot build"), "target", target.String())
	}

	dir := target.String()
	dotenv, err := readDotenv(dir)
	if err != nil {
		return "", err
	}
	env := resolveEnvironment(os.Environ(), dotenv, cfg.Environment)

	name := cfg.Command[0]
	executable := name
	if !filepath.IsAbs(name) {
		if lp, lerr := lookPath(name, env); lerr == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, cfg.Command[1:]...) //nolint:gosec // user provided command
	cmd.Args[0] = name
	cmd.Dir = dir
	cmd.Env = env

	b.logger.Info("running " + strings.Join(cfg.Command, " "))

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to start command"), "command", name)
	}

	var out bytes.Buffer
	var copied sync.WaitGroup
	copied.Add(1)
	go func() {
		defer copied.Done()
		// The PTY reports EIO once the child has exited; that is the normal end of output.
		_, _ = io.Copy(&out, ptmx)
	}()

	waitErr := cmd.Wait()
	copied.Wait()
	_ = ptmx.Close()

	output := strings.ReplaceAll(out.String(), "\r\n", "\n")
	if waitErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return output, zerr.With(fmt.Errorf("%w: %w", domain.ErrCommandFailed, waitErr), "exit_code", exitCode)
	}
	return output, nil
}

// readDotenv loads the .env file of dir, if there is one.
func readDotenv(dir string) (map[string]string, error) {
	path := filepath.Join(dir, domain.EnvFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load environment file"), "path", path)
	}
	return vars, nil
}

// allowListedEnvVars are the variables inherited from the calling environment.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"TMPDIR": {},
}

// resolveEnvironment layers the allow-listed system variables, the .env file
// and the configured environment, later layers winning.
func resolveEnvironment(sysEnv []string, dotenv, configured map[string]string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	for k, v := range dotenv {
		envMap[k] = v
	}
	for k, v := range configured {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for file in the PATH of env rather than the caller's.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "PATH="); ok {
			path = after
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
