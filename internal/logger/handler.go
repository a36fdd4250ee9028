package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// PrettyHandler is a slog.Handler that produces human-readable, colored output.
// Colors are used only when writing to a terminal and NO_COLOR is unset.
type PrettyHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	color bool
	attrs []slog.Attr
	group string
}

// NewPrettyHandler creates a new PrettyHandler writing to the provided writer.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		color: IsTerminal(w) && !color.NoColor,
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	var c *color.Color

	switch {
	case r.Level >= slog.LevelError:
		msg = "✗ " + msg
		c = color.New(color.FgRed)
	case r.Level >= slog.LevelWarn:
		msg = "⚠ " + msg
		c = color.New(color.FgYellow)
	case r.Level < slog.LevelInfo:
		c = color.New(color.FgHiBlack)
	}

	attrParts := make([]string, 0, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		attrParts = append(attrParts, formatAttr(h.group, attr))
	}
	r.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, formatAttr(h.group, attr))
		return true
	})
	if len(attrParts) > 0 {
		msg += " " + strings.Join(attrParts, " ")
	}

	if h.color && c != nil {
		c.EnableColor()
		msg = c.Sprint(msg)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, msg+"\n")
	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)

	clone := *h
	clone.attrs = newAttrs
	return &clone
}

// WithGroup returns a new Handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.group = name
	return &clone
}

// formatAttr formats a single attribute for output.
// If a group is set, the key is prefixed with the group name.
func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}

// switchHandler forwards to a handler that can be replaced at runtime.
type switchHandler struct {
	current atomic.Pointer[slog.Handler]
	attrs   []slog.Attr
	group   string
	parent  *switchHandler
}

func (s *switchHandler) set(h slog.Handler) {
	s.current.Store(&h)
}

// resolve returns the live handler with this view's attrs and group applied.
func (s *switchHandler) resolve() slog.Handler {
	root := s
	for root.parent != nil {
		root = root.parent
	}
	h := *root.current.Load()
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}
	if s.group != "" {
		h = h.WithGroup(s.group)
	}
	return h
}

func (s *switchHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.resolve().Enabled(ctx, level)
}

//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (s *switchHandler) Handle(ctx context.Context, r slog.Record) error {
	return s.resolve().Handle(ctx, r)
}

func (s *switchHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	root := s
	if s.parent != nil {
		root = s.parent
	}
	merged := make([]slog.Attr, 0, len(s.attrs)+len(attrs))
	merged = append(merged, s.attrs...)
	merged = append(merged, attrs...)
	return &switchHandler{parent: root, attrs: merged, group: s.group}
}

func (s *switchHandler) WithGroup(name string) slog.Handler {
	root := s
	if s.parent != nil {
		root = s.parent
	}
	return &switchHandler{parent: root, attrs: s.attrs, group: name}
}
