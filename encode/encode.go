package encode

import (
	"bytes"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/strux/lang"
)

// Options controls encoding.
type Options struct {
	Format Format
	// Indent is the number of spaces per nesting level for YAML, JSON, and
	// XML. Zero selects compact output: flow style for YAML, a single line
	// for JSON and XML.
	Indent int
	// SortKeys orders struct fields by key instead of insertion order.
	SortKeys bool
	// RootTag names the XML document element. Empty means [DefaultRootTag].
	RootTag string
}

// DefaultOptions returns YAML output with [DefaultIndent].
func DefaultOptions() Options {
	return Options{Format: DefaultFormat, Indent: DefaultIndent, RootTag: DefaultRootTag}
}

// Marshal returns the encoding of v. A nil v encodes as the format's null.
func Marshal(v *lang.Value, opts Options) ([]byte, error) {
	if opts.SortKeys {
		v = sorted(v)
	}

	opts.Indent = max(opts.Indent, 0)

	var (
		out []byte
		err error
	)

	switch opts.Format {
	case FormatYAML:
		out, err = marshalYAML(v, opts)
	case FormatJSON:
		out, err = marshalJSON(v, opts)
	case FormatMsgpack:
		out, err = marshalMsgpack(v)
	case FormatXML:
		out, err = marshalXML(v, opts)
	default:
		return nil, ErrUnknownFormat.With(slog.String("format", opts.Format.String()))
	}

	if err != nil {
		return nil, ErrEncode.Wrap(err).With(slog.String("format", opts.Format.String()))
	}

	return out, nil
}

// Encode writes the encoding of v to w. Nothing is written if encoding fails.
func Encode(w io.Writer, v *lang.Value, opts Options) error {
	out, err := Marshal(v, opts)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, bytes.NewReader(out))

	return err
}

// sorted returns a copy of v with every struct's fields ordered by key.
func sorted(v *lang.Value) *lang.Value {
	v = v.Clone()
	sortFields(v)

	return v
}

func sortFields(v *lang.Value) {
	if v == nil {
		return
	}

	switch v.Kind {
	case lang.KindList:
		for _, item := range v.List {
			sortFields(item)
		}

	case lang.KindStruct:
		slices.SortFunc(v.Fields, func(a, b *lang.Field) int {
			return strings.Compare(a.Key, b.Key)
		})

		for _, f := range v.Fields {
			sortFields(f.Value)
		}
	}
}

// unknownKind reports a Value variant no encoder handles.
func unknownKind(v *lang.Value) error {
	return lang.ErrInvalidValue.With(slog.String("kind", v.Kind.String()))
}
