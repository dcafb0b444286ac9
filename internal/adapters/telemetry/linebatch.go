package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	defaultBatchBytes    = 4096
	defaultBatchInterval = 50 * time.Millisecond
)

var errBatcherClosed = zerr.New("line batcher is closed")

// LineBatcher groups a target's build output into whole lines before handing
// it on, so renderers never see a line split across two chunks.
//
// Complete lines go out once per interval, or as soon as maxBytes are
// buffered. A partial line is held back for one extra interval so that
// prompts without a trailing newline still show up.
type LineBatcher struct {
	maxBytes int
	interval time.Duration
	emit     func([]byte)

	mu     sync.Mutex
	buf    []byte
	timer  *time.Timer
	stale  bool
	closed bool
}

// NewLineBatcher returns a LineBatcher calling emit with each chunk.
// Non-positive limits fall back to the defaults.
func NewLineBatcher(maxBytes int, interval time.Duration, emit func([]byte)) *LineBatcher {
	if maxBytes <= 0 {
		maxBytes = defaultBatchBytes
	}
	if interval <= 0 {
		interval = defaultBatchInterval
	}
	return &LineBatcher{maxBytes: maxBytes, interval: interval, emit: emit}
}

// Write buffers p.
func (b *LineBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errBatcherClosed
	}

	b.buf = append(b.buf, p...)
	if len(b.buf) >= b.maxBytes {
		end := lineEnd(b.buf)
		if end == 0 {
			// A single line longer than maxBytes.
			end = len(b.buf)
		}
		b.emitLocked(end)
	}
	if len(b.buf) > 0 && b.timer == nil {
		b.timer = time.AfterFunc(b.interval, b.tick)
	}
	return len(p), nil
}

// Close emits everything still buffered. Later writes fail.
func (b *LineBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.emitLocked(len(b.buf))
	return nil
}

func (b *LineBatcher) tick() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.timer = nil
	if b.closed {
		return
	}

	end := lineEnd(b.buf)
	if end == 0 && b.stale {
		end = len(b.buf)
	}
	b.emitLocked(end)

	b.stale = len(b.buf) > 0
	if b.stale {
		b.timer = time.AfterFunc(b.interval, b.tick)
	}
}

// emitLocked hands the first n buffered bytes to emit. It runs under mu so
// chunks keep their order.
func (b *LineBatcher) emitLocked(n int) {
	if n == 0 {
		return
	}
	data := bytes.Clone(b.buf[:n])
	b.buf = append(b.buf[:0], b.buf[n:]...)
	if b.emit != nil {
		b.emit(data)
	}
}

// lineEnd returns the length of the complete lines at the start of p.
func lineEnd(p []byte) int {
	return bytes.LastIndexByte(p, '\n') + 1
}
