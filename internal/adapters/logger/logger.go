// Package logger implements ports.Logger on top of log/slog.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/pbuild/internal/core/ports"
	"go.trai.ch/pbuild/internal/ui/style"
)

// messager is implemented by zerr errors: the message of one link without its cause.
type messager interface {
	Message() string
}

// metadataer is implemented by zerr errors carrying key/value context.
type metadataer interface {
	Metadata() map[string]any
}

// sink is the output configuration shared by a logger and every child created with With.
type sink struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	jsonMode bool
	output   io.Writer
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	sink  *sink
	attrs []any
}

// New creates a Logger writing human readable records to stderr.
func New() ports.Logger {
	l := &Logger{sink: &sink{output: os.Stderr}}
	l.sink.rebuild()
	return l
}

// SetOutput redirects all records, including those of child loggers, to w.
// A nil w restores stderr.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.output = w
	l.sink.rebuild()
}

// SetJSON switches between JSON records and pretty output.
func (l *Logger) SetJSON(enable bool) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.jsonMode = enable
	l.sink.rebuild()
}

// rebuild must be called with mu held for writing, or before the sink is shared.
func (s *sink) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if s.jsonMode {
		s.logger = slog.New(slog.NewJSONHandler(s.output, opts))
		return
	}
	s.logger = slog.New(NewPrettyHandler(s.output, opts))
}

// With returns a child logger that attaches key=value to every record.
func (l *Logger) With(key string, value any) ports.Logger {
	attrs := make([]any, 0, len(l.attrs)+2)
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, key, value)
	return &Logger{sink: l.sink, attrs: attrs}
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.log(slog.LevelInfo, msg)
}

// Warn logs a warning.
func (l *Logger) Warn(msg string) {
	l.log(slog.LevelWarn, msg)
}

// Error logs err. In pretty mode the zerr chain is unfolded into an
// "Error:" line followed by one "→" line per cause.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}

	l.sink.mu.RLock()
	jsonMode := l.sink.jsonMode
	l.sink.mu.RUnlock()

	if jsonMode {
		l.log(slog.LevelError, err.Error())
		return
	}
	l.log(slog.LevelError, formatErrorEntries(collectErrorEntries(err)))
}

func (l *Logger) log(level slog.Level, msg string) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	logger := l.sink.logger
	if len(l.attrs) > 0 {
		logger = logger.With(l.attrs...)
	}
	logger.Log(context.Background(), level, msg)
}

// errorEntry is one link of an error chain.
type errorEntry struct {
	message  string
	metadata []string
}

// collectErrorEntries walks err's chain. zerr links contribute their own
// message and metadata; the first non-zerr link contributes its full text and
// ends the walk. Links without a message hand their metadata to the next link.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	var pending []string

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{message: current.Error(), metadata: pending})
			pending = nil
			break
		}

		meta := pending
		if md, ok := current.(metadataer); ok {
			meta = append(meta, formatMetadata(md.Metadata())...)
		}
		if m.Message() == "" {
			pending = meta
		} else {
			entries = append(entries, errorEntry{message: m.Message(), metadata: meta})
			pending = nil
		}
		current = errors.Unwrap(current)
	}

	if len(pending) > 0 && len(entries) > 0 {
		last := &entries[len(entries)-1]
		last.metadata = append(last.metadata, pending...)
	}
	return entries
}

func formatMetadata(md map[string]any) []string {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, md[k])
	}
	return pairs
}

// formatErrorEntries renders:
//
//	Error: <first message> (k=v)
//
//	  Caused by:
//	    → <cause>
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, e := range entries {
		text := strings.Split(e.message, "\n")
		if len(e.metadata) > 0 {
			text[0] += " (" + strings.Join(e.metadata, ", ") + ")"
		}

		if i == 0 {
			lines = append(lines, "Error: "+text[0])
			for _, cont := range text[1:] {
				lines = append(lines, "       "+cont)
			}
			continue
		}

		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    "+style.Arrow+" "+text[0])
		for _, cont := range text[1:] {
			lines = append(lines, "      "+cont)
		}
	}

	return strings.Join(lines, "\n")
}
