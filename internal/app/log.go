package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// attestHandler is a slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<runID>\t<message>\t<key=value ...>
//
// Records below level are dropped. Handlers derived with WithAttrs share the
// writer lock so concurrent request logs do not interleave.
type attestHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	runID string
	level slog.Leveler
	attrs []slog.Attr
}

func newAttestHandler(w io.Writer, runID string, level slog.Leveler) *attestHandler {
	return &attestHandler{w: w, mu: &sync.Mutex{}, runID: runID, level: level}
}

func (h *attestHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.level == nil {
		return true
	}
	return level >= h.level.Level()
}

func (h *attestHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")

	line := fmt.Sprintf("%s\t%s\t%s\t%s", ts, r.Level.String(), h.runID, r.Message)
	for _, a := range h.attrs {
		line += formatAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		line += formatAttr(a)
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, line)
	return err
}

func formatAttr(a slog.Attr) string {
	return fmt.Sprintf("\t%s=%v", a.Key, a.Value.Resolve())
}

func (h *attestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attestHandler{
		w:     h.w,
		mu:    h.mu,
		runID: h.runID,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *attestHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger that writes to both logDir/attest.log and stderr.
// It returns the slog.Logger, the open log file (for cleanup), and any error.
func newLogger(logDir string, runID string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "attest.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	w := io.MultiWriter(f, os.Stderr)
	return slog.New(newAttestHandler(w, runID, slog.LevelInfo)), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the attest.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
