package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by prettyHandler. Styles are bound to a
// renderer for the handler's output, so colors are dropped when that output
// is not a terminal.
type palette struct {
	key, text, number, boolTrue, boolFalse, other lipgloss.Style
	level                                       map[Level]lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:       fg("8"),
		text:      fg("6"),
		number:    fg("3"),
		boolTrue:  fg("2"),
		boolFalse: fg("1"),
		other:     fg("5"),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("4"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2").Bold(true),
			LevelWarn:  fg("3").Bold(true),
			LevelError: fg("1").Bold(true),
		},
	}
}

// prettyHandler is a [slog.Handler] writing colorized key=value lines.
type prettyHandler struct {
	cfg    config
	colors *palette
	mu     *sync.Mutex
	prefix string // group qualifier applied to attribute keys
	attrs  []byte // preformatted attributes from WithAttrs
}

func newPrettyHandler(cfg config) *prettyHandler {
	p := makePalette(cfg.output)

	return &prettyHandler{cfg: cfg, colors: &p, mu: &sync.Mutex{}}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(h.cfg.level)
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.cfg.formatTime(r.Time); ts != "" {
			buf.WriteString(h.colors.key.Render(ts))
			buf.WriteByte(' ')
		}
	}

	level := Level(r.Level)
	style, ok := h.colors.level[level]

	if !ok {
		style = h.colors.other
	}

	buf.WriteString(style.Render(strings.ToUpper(level.String())))

	if h.cfg.caller && r.PC != 0 {
		src := r.Source()
		buf.WriteByte(' ')
		buf.WriteString(h.colors.key.Render(src.File + ":" + strconv.Itoa(src.Line)))
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.cfg.output.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(append([]byte(nil), h.attrs...))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, group, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.colors.key.Render(prefix + a.Key))
	buf.WriteByte('=')
	h.writeValue(buf, a.Value)
}

func (h *prettyHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"=") || s == "" {
			s = strconv.Quote(s)
		}

		buf.WriteString(h.colors.text.Render(s))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		buf.WriteString(h.colors.number.Render(v.String()))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.colors.boolTrue.Render("true"))
		} else {
			buf.WriteString(h.colors.boolFalse.Render("false"))
		}

	case slog.KindTime:
		buf.WriteString(h.colors.other.Render(v.Time().Format(time.RFC3339)))

	default:
		buf.WriteString(h.colors.other.Render(v.String()))
	}
}
