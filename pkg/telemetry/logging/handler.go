package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// timeLayout is the timestamp prefix of every emitted line. The log
// query engine parses this exact layout, so the two must stay in sync.
const timeLayout = "2006-01-02 15:04:05"

// LevelString returns the canonical level token written to the log file.
// slog's WARN is widened to WARNING so the token set matches the levels
// the query engine filters on.
func LevelString(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// lineHandler is a slog.Handler that writes fixed-layout lines:
//
//	2006-01-02 15:04:05 LEVEL message key=value ...
//
// Lines are written atomically under a mutex so concurrent loggers never
// interleave within a line. Each committed line reports its level to the
// metrics recorder, if one is set.
type lineHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	hook   MetricsRecorder
	attrs  []slog.Attr
	prefix string // group prefix for attribute keys
}

func newLineHandler(w io.Writer, level slog.Leveler, hook MetricsRecorder) *lineHandler {
	return &lineHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		hook:  hook,
	}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	level := LevelString(r.Level)

	var buf bytes.Buffer
	buf.WriteString(r.Time.Format(timeLayout))
	buf.WriteByte(' ')
	buf.WriteString(level)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	// Bound attrs already carry the group prefix that was active when
	// they were bound.
	for _, a := range h.attrs {
		appendAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	_, err := h.w.Write(buf.Bytes())
	h.mu.Unlock()
	if err != nil {
		return err
	}

	if h.hook != nil {
		h.hook.RecordLogMessage(level)
	}
	return nil
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

// appendAttr writes " key=value", quoting values that contain spaces,
// quotes, or equals signs so lines stay machine-splittable.
func appendAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	val := a.Value.Resolve().String()
	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	if strings.ContainsAny(val, " \"=") {
		fmt.Fprintf(buf, "%q", val)
	} else {
		buf.WriteString(val)
	}
}
