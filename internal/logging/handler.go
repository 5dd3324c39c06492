package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Handler is a slog.Handler whose level, formatter, and destination can be
// reconfigured after construction. The CLI builds one at startup with a
// provisional level, then calls SetLevel/SetFormatter/SetStream once flags
// have been parsed.
type Handler struct {
	mu        sync.Mutex
	level     slog.Leveler
	formatter *PrettyFormatter
	stream    io.Writer
	attrs     []slog.Attr
	groups    []string
}

// NewHandler creates a Handler writing through formatter to stream at the
// given initial level.
func NewHandler(stream io.Writer, formatter *PrettyFormatter, level slog.Leveler) *Handler {
	return &Handler{
		stream:    stream,
		formatter: formatter,
		level:     level,
	}
}

// Enabled reports whether the handler's current level admits records at
// the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return level >= h.level.Level()
}

// Handle formats and writes a single log record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	formatter, stream := h.formatter, h.stream
	attrs := append([]slog.Attr(nil), h.attrs...)
	groups := append([]string(nil), h.groups...)
	h.mu.Unlock()

	r.AddAttrs(attrs...)
	line := formatter.Format(r, groups)
	_, err := stream.Write(line)
	return err
}

// WithAttrs returns a derived handler carrying the additional attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &Handler{
		level:     h.level,
		formatter: h.formatter,
		stream:    h.stream,
		attrs:     append(append([]slog.Attr(nil), h.attrs...), attrs...),
		groups:    h.groups,
	}
}

// WithGroup returns a derived handler scoped to the named group.
func (h *Handler) WithGroup(name string) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &Handler{
		level:     h.level,
		formatter: h.formatter,
		stream:    h.stream,
		attrs:     h.attrs,
		groups:    append(append([]string(nil), h.groups...), name),
	}
}

// SetLevel changes the minimum level admitted by the handler.
func (h *Handler) SetLevel(level slog.Leveler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.level = level
}

// SetFormatter replaces the formatter used to render records.
func (h *Handler) SetFormatter(f *PrettyFormatter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.formatter = f
}

// SetStream replaces the destination writer.
func (h *Handler) SetStream(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stream = w
}

// Flush is a no-op hook kept for symmetry with handlers that buffer
// output; this handler writes synchronously so there is nothing to drain.
func (h *Handler) Flush() {}
