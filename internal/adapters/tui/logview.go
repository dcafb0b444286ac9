package tui

import (
	"strings"
	"sync"

	"github.com/vito/midterm"
)

// logView is a scrollable virtual terminal holding the output of one target.
// A view scrolled to the bottom follows new output.
type logView struct {
	mu     sync.Mutex
	vt     *midterm.Terminal
	offset int
	height int
}

func newLogView() *logView {
	return &logView{
		vt:     midterm.NewAutoResizingTerminal(),
		height: 1,
	}
}

// Write feeds build output to the terminal.
func (v *logView) Write(p []byte) (int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	follow := v.offset >= v.maxOffsetLocked()

	n, err := v.vt.Write(p)

	if follow {
		v.offset = v.maxOffsetLocked()
	}
	return n, err
}

// Resize sets the visible area.
func (v *logView) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	width = max(width, 1)
	height = max(height, 1)

	follow := v.offset >= v.maxOffsetLocked()
	v.height = height
	v.vt.ResizeX(width)

	if follow {
		v.offset = v.maxOffsetLocked()
		return
	}
	v.clampLocked()
}

// Scroll moves the view by delta lines; negative values scroll up.
func (v *logView) Scroll(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.offset += delta
	v.clampLocked()
}

// ScrollToTop shows the first line.
func (v *logView) ScrollToTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = 0
}

// ScrollToBottom shows the latest output and resumes following it.
func (v *logView) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = v.maxOffsetLocked()
}

// Height returns the number of visible lines.
func (v *logView) Height() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

// Offset returns the first visible line.
func (v *logView) Offset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// Lines returns the number of lines written so far.
func (v *logView) Lines() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vt.UsedHeight()
}

// View renders the visible lines.
func (v *logView) View() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.clampLocked()

	var b, line strings.Builder
	used := v.vt.UsedHeight()
	for i := 0; i < v.height; i++ {
		row := v.offset + i
		if row >= used {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		line.Reset()
		_ = v.vt.RenderLine(&line, row)
		b.WriteString(trimRow(line.String()))
	}
	return b.String()
}

// trimRow drops the blank padding midterm adds up to the terminal width.
func trimRow(row string) string {
	const reset = "\x1b[0m"
	trimmed := strings.TrimRight(row, " ")
	if body, ok := strings.CutSuffix(trimmed, reset); ok {
		return strings.TrimRight(body, " ") + reset
	}
	return trimmed
}

func (v *logView) clampLocked() {
	v.offset = min(max(v.offset, 0), v.maxOffsetLocked())
}

func (v *logView) maxOffsetLocked() int {
	return max(v.vt.UsedHeight()-v.height, 0)
}
