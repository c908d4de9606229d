package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/chartcache/internal/ui/output"
	"go.trai.ch/chartcache/internal/ui/style"
)

// PrettyHandler is a slog.Handler that writes one colored entry per record.
// Attributes follow the message as an indented "key: value" block.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	fields []slog.Attr
	prefix string
}

// NewPrettyHandler creates a handler writing to w, or to stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled reports whether records at level are written.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	marker, color := levelStyle(r.Level)

	var sb strings.Builder
	sb.WriteString(h.out.String(marker + r.Message).Foreground(color).String())

	fields := slices.Clone(h.fields)
	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.prefix, a)
		return true
	})

	dim := termenv.RGBColor(string(style.Slate))
	for _, f := range fields {
		sb.WriteString("\n    ")
		sb.WriteString(h.out.String(f.Key + ": " + f.Value.String()).Foreground(dim).String())
	}
	sb.WriteByte('\n')

	_, err := h.out.WriteString(sb.String())
	return err
}

// WithAttrs returns a handler that writes attrs with every record.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := slices.Clone(h.fields)
	for _, a := range attrs {
		fields = flatten(fields, h.prefix, a)
	}
	return &PrettyHandler{out: h.out, level: h.level, fields: fields, prefix: h.prefix}
}

// WithGroup returns a handler that qualifies later keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &PrettyHandler{out: h.out, level: h.level, fields: h.fields, prefix: h.prefix + name + "."}
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross + " ", termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning + " ", termenv.RGBColor(string(style.Yellow))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

// flatten appends a with its key qualified by prefix. Group values are expanded.
func flatten(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() != slog.KindGroup {
		return append(dst, slog.Attr{Key: prefix + a.Key, Value: a.Value})
	}
	inner := prefix
	if a.Key != "" {
		inner += a.Key + "."
	}
	for _, g := range a.Value.Group() {
		dst = flatten(dst, inner, g)
	}
	return dst
}
