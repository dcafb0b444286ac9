// Package detector inspects the environment to choose how output is rendered.
package detector

import (
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/pbuild/internal/ui/output"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeInteractive renders for a terminal with its full color support.
	ModeInteractive OutputMode = iota
	// ModeCI renders for log collectors with basic colors.
	ModeCI
)

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // Fd fits in int

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeCI
	}
	return ModeInteractive
}

// ColorProfile returns the profile function matching mode.
func ColorProfile(mode OutputMode) func() termenv.Profile {
	if mode == ModeCI {
		return output.ColorProfileANSI
	}
	return output.ColorProfile
}

// ResolveMode applies the --output flag to auto-detection.
// requested should be one of "auto", "tui", "linear", "ci" or empty.
func ResolveMode(autoDetected OutputMode, requested string) OutputMode {
	switch requested {
	case "tui":
		return ModeInteractive
	case "linear", "ci":
		return ModeCI
	default:
		return autoDetected
	}
}
