// Package tui provides an interactive terminal view of a running build: a
// target list next to the output of the selected target.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/pbuild/internal/ui/output"
)

// NewModel creates a new TUI model that follows running builds.
func NewModel(w io.Writer) *Model {
	if w == nil {
		w = os.Stderr
	}

	lipgloss.SetColorProfile(output.New(w).Profile)

	return &Model{
		Targets:    make([]*TargetNode, 0),
		TargetMap:  make(map[string]*TargetNode),
		SpanMap:    make(map[string]*TargetNode),
		FollowMode: true,
	}
}
