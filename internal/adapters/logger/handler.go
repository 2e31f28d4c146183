package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/incc/internal/ui/output"
	"go.trai.ch/incc/internal/ui/style"
)

// ErrorKey is the attribute key under which a record carries its error.
const ErrorKey = "error"

// Handler is a slog.Handler for incc's terminal output.
//
// A record carrying an error under ErrorKey is rendered as the error's cause chain,
// each link followed by the metadata attached to it with zerr.
// Any other attribute is appended to the first line as key=value.
type Handler struct {
	out    *termenv.Output
	level  slog.Leveler
	pairs  []string
	prefix string
}

// NewHandler creates a Handler writing to w, or to os.Stderr if w is nil.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &Handler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes one record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var cause error
	pairs := slices.Clone(h.pairs)
	r.Attrs(func(attr slog.Attr) bool {
		if err, ok := attr.Value.Any().(error); ok && attr.Key == ErrorKey && cause == nil {
			cause = err
			return true
		}
		pairs = appendAttr(pairs, h.prefix, attr)
		return true
	})

	lines := []string{r.Message}
	if cause != nil {
		entries := collectErrorEntries(cause)
		if r.Message != "" {
			entries = append([]ErrorEntry{{Message: r.Message}}, entries...)
		}
		lines = strings.Split(formatErrorEntries(entries), "\n")
	}

	icon, color := decorate(r.Level)
	head := icon + lines[0]
	if len(pairs) > 0 {
		head += " " + strings.Join(pairs, " ")
	}

	var b strings.Builder
	b.WriteString(h.out.String(head).Foreground(color).String())
	b.WriteByte('\n')
	for _, line := range lines[1:] {
		b.WriteString(h.out.String(line).Foreground(color).String())
		b.WriteByte('\n')
	}

	_, err := h.out.WriteString(b.String())
	return err
}

// WithAttrs returns a Handler that appends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	pairs := slices.Clone(h.pairs)
	for _, attr := range attrs {
		pairs = appendAttr(pairs, h.prefix, attr)
	}

	return &Handler{
		out:    h.out,
		level:  h.level,
		pairs:  pairs,
		prefix: h.prefix,
	}
}

// WithGroup returns a Handler that qualifies the keys of later attributes with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &Handler{
		out:    h.out,
		level:  h.level,
		pairs:  h.pairs,
		prefix: h.prefix + name + ".",
	}
}

func decorate(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross + " ", termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning + " ", termenv.RGBColor(string(style.Yellow))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

// appendAttr formats attr as key=value, flattening groups into dotted keys.
// Values containing spaces are quoted.
func appendAttr(pairs []string, prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return pairs
	}

	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, a := range attr.Value.Group() {
			pairs = appendAttr(pairs, prefix, a)
		}
		return pairs
	}

	value := attr.Value.String()
	if strings.ContainsAny(value, " \t\n\"") {
		value = strconv.Quote(value)
	}
	return append(pairs, prefix+attr.Key+"="+value)
}
