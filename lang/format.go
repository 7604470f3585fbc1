package lang

import (
	"bufio"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// identifier matches struct keys that lex as a single Ident token.
var identifier = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Format writes v to w as source text that parses back to an equal value.
//
// With indent 0 the output is a single line. Otherwise nested entries go on
// their own lines, indented by indent spaces per level, and struct entries
// carry a trailing comma.
//
// Values the language cannot express return an error wrapping
// [ErrUnrepresentable]: negative or non-finite numbers, text containing a
// single quote or a block comment, and struct keys that are not identifiers.
// Nothing is written for a nil v or on error.
func Format(w io.Writer, v *Value, indent int) error {
	if v == nil {
		return nil
	}

	f := formatter{indent: max(indent, 0)}
	if err := f.value(v, 0); err != nil {
		return err
	}

	if f.indent > 0 {
		f.buf.WriteByte('\n')
	}

	// Text values may together spell out a block comment, which would be
	// stripped when the output is parsed again.
	if span := blockComment.FindStringIndex(f.buf.String()); span != nil {
		return ErrUnrepresentable.With(
			slog.String("issue", "text contains a block comment"),
			slog.String("comment", f.buf.String()[span[0]:span[1]]),
		)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(f.buf.String()); err != nil {
		return err
	}

	return bw.Flush()
}

// FormatString returns the result of [Format] as a string.
func FormatString(v *Value, indent int) (string, error) {
	var sb strings.Builder
	if err := Format(&sb, v, indent); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// FormatNumber returns the shortest decimal literal for n, always including a
// fractional part. It does not check that n is representable.
func FormatNumber(n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

type formatter struct {
	buf    strings.Builder
	indent int
}

func (f *formatter) newline(depth int) {
	if f.indent == 0 {
		return
	}

	f.buf.WriteByte('\n')
	f.buf.WriteString(strings.Repeat(" ", depth*f.indent))
}

func (f *formatter) value(v *Value, depth int) error {
	if v == nil {
		return ErrUnrepresentable.With(slog.String("issue", "nil element"))
	}

	switch v.Kind {
	case KindNumber:
		if !isFiniteNonNegative(v.Number) {
			return ErrUnrepresentable.With(
				slog.String("kind", v.Kind.String()),
				slog.Float64("number", v.Number),
			)
		}

		f.buf.WriteString(FormatNumber(v.Number))

	case KindText:
		if strings.ContainsRune(v.Text, '\'') {
			return ErrUnrepresentable.With(
				slog.String("kind", v.Kind.String()),
				slog.String("text", v.Text),
			)
		}

		f.buf.WriteByte('\'')
		f.buf.WriteString(v.Text)
		f.buf.WriteByte('\'')

	case KindList:
		f.buf.WriteString("(list")

		for _, item := range v.List {
			if f.indent == 0 {
				f.buf.WriteByte(' ')
			} else {
				f.newline(depth + 1)
			}

			if err := f.value(item, depth+1); err != nil {
				return err
			}
		}

		if len(v.List) > 0 {
			f.newline(depth)
		}

		f.buf.WriteByte(')')

	case KindStruct:
		f.buf.WriteString("struct {")

		for i, field := range v.Fields {
			if !identifier.MatchString(field.Key) ||
				field.Key == "set" || field.Key == "struct" {
				return ErrUnrepresentable.With(
					slog.String("kind", v.Kind.String()),
					slog.String("key", field.Key),
				)
			}

			switch {
			case f.indent > 0:
				f.newline(depth + 1)
			case i == 0:
				f.buf.WriteByte(' ')
			default:
				f.buf.WriteString(", ")
			}

			f.buf.WriteString(field.Key)
			f.buf.WriteString(" = ")

			if err := f.value(field.Value, depth+1); err != nil {
				return err
			}

			if f.indent > 0 {
				f.buf.WriteByte(',')
			}
		}

		switch {
		case len(v.Fields) == 0:
		case f.indent > 0:
			f.newline(depth)
		default:
			f.buf.WriteByte(' ')
		}

		f.buf.WriteByte('}')

	default:
		return ErrUnrepresentable.With(slog.String("kind", v.Kind.String()))
	}

	return nil
}
