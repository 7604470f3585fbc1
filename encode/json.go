package encode

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ardnew/strux/lang"
)

func marshalJSON(v *lang.Value, opts Options) ([]byte, error) {
	tree, err := jsonTree(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if opts.Indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", opts.Indent))
	}

	if err := enc.Encode(tree); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// jsonObject is a struct value whose members are written in order.
type jsonObject []jsonMember

type jsonMember struct {
	key   string
	value any
}

// MarshalJSON implements json.Marshaler.
func (o jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')

	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := enc.Encode(m.key); err != nil {
			return nil, err
		}

		buf.Truncate(buf.Len() - 1) // newline added by Encode
		buf.WriteByte(':')

		if err := enc.Encode(m.value); err != nil {
			return nil, err
		}

		buf.Truncate(buf.Len() - 1)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func jsonTree(v *lang.Value) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch v.Kind {
	case lang.KindNumber:
		return v.Number, nil

	case lang.KindText:
		return v.Text, nil

	case lang.KindList:
		out := make([]any, len(v.List))

		for i, item := range v.List {
			elem, err := jsonTree(item)
			if err != nil {
				return nil, err
			}

			out[i] = elem
		}

		return out, nil

	case lang.KindStruct:
		out := make(jsonObject, len(v.Fields))

		for i, f := range v.Fields {
			elem, err := jsonTree(f.Value)
			if err != nil {
				return nil, err
			}

			out[i] = jsonMember{key: f.Key, value: elem}
		}

		return out, nil

	default:
		return nil, unknownKind(v)
	}
}
