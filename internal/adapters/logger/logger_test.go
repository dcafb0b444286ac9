package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pbuild/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger returns a logger writing uncolored output to a buffer.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Info("some message")

	goldie.New(t).Assert(t, "info_basic", buf.Bytes())
}

func TestLogger_WithAttrs(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.With("target", "/repo/app").With("pid", 42).Info("worker started")

	goldie.New(t).Assert(t, "info_with_attrs", buf.Bytes())
}

func TestLogger_WithDoesNotLeakIntoParent(t *testing.T) {
	lg, buf := newTestLogger(t)
	_ = lg.With("target", "/repo/app")
	lg.Info("some message")

	goldie.New(t).Assert(t, "info_basic", buf.Bytes())
}

func TestLogger_ChildFollowsSetOutput(t *testing.T) {
	lg, _ := newTestLogger(t)
	child := lg.With("target", "/repo/app").With("pid", 42)

	buf := &bytes.Buffer{}
	lg.SetOutput(buf)
	child.Info("worker started")

	goldie.New(t).Assert(t, "info_with_attrs", buf.Bytes())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("dropping frame for unknown target")

	goldie.New(t).Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name:       "multiline",
			err:        errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal"),
			goldenName: "error_multiline",
		},
		{
			name: "zerr chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("exit status 1"), "an error occurred in /repo/app"),
				"build failed",
			),
			goldenName: "error_chain_zerr",
		},
		{
			name: "metadata",
			err: zerr.With(
				zerr.Wrap(zerr.New("workers did not become ready in time"), "still waiting on /repo/b"),
				"ready_timeout", "1m0s",
			),
			goldenName: "error_metadata",
		},
		{
			name:       "metadata on stdlib error",
			err:        zerr.With(errors.New("connection refused"), "addr", "unix:///tmp/x.sock"),
			goldenName: "error_metadata_stdlib",
		},
		{
			name: "metadata on joined stdlib errors",
			err: zerr.With(
				fmt.Errorf("%w: %w", errors.New("failed to spawn worker"), errors.New("no such file or directory")),
				"target", "/repo/app",
			),
			goldenName: "error_metadata_joined",
		},
		{
			name:       "stdlib chain stops traversal",
			err:        fmt.Errorf("failed to load config: %w", fmt.Errorf("wrapped: %w", errors.New("boom"))),
			goldenName: "error_chain_stdlib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			goldie.New(t).Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.With("target", "/repo/app").Error(zerr.Wrap(errors.New("syntax error"), "an error occurred in /repo/app"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "an error occurred in /repo/app: syntax error", record["msg"])
	assert.Equal(t, "/repo/app", record["target"])
}

func TestFormatErrorEntries_Empty(t *testing.T) {
	assert.Empty(t, logger.FormatErrorEntries(logger.CollectErrorEntries(nil)))
}
