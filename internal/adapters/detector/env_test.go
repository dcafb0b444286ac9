package detector_test

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/pbuild/internal/adapters/detector"
)

func TestDetectEnvironment_CI(t *testing.T) {
	for _, value := range []string{"true", "1"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("CI", value)
			assert.Equal(t, detector.ModeCI, detector.DetectEnvironment())
		})
	}
}

func TestDetectEnvironment_NotATerminal(t *testing.T) {
	// go test does not attach stdout to a terminal.
	t.Setenv("CI", "false")
	assert.Equal(t, detector.ModeCI, detector.DetectEnvironment())
}

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, detector.ColorProfile(detector.ModeCI)())

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, detector.ColorProfile(detector.ModeCI)())
	assert.Equal(t, termenv.Ascii, detector.ColorProfile(detector.ModeInteractive)())
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputMode
		requested    string
		expected     detector.OutputMode
	}{
		{name: "auto keeps interactive", autoDetected: detector.ModeInteractive, requested: "auto", expected: detector.ModeInteractive},
		{name: "empty keeps ci", autoDetected: detector.ModeCI, requested: "", expected: detector.ModeCI},
		{name: "tui forces interactive", autoDetected: detector.ModeCI, requested: "tui", expected: detector.ModeInteractive},
		{name: "linear forces ci", autoDetected: detector.ModeInteractive, requested: "linear", expected: detector.ModeCI},
		{name: "ci forces ci", autoDetected: detector.ModeInteractive, requested: "ci", expected: detector.ModeCI},
		{name: "unknown falls back", autoDetected: detector.ModeInteractive, requested: "fancy", expected: detector.ModeInteractive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveMode(tt.autoDetected, tt.requested))
		})
	}
}
