package encode

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/clbanning/mxj"

	"github.com/ardnew/strux/lang"
)

// ItemTag names the element wrapping each item of a list that is not the
// value of a struct field: items of the document list and of nested lists.
const ItemTag = "element"

func marshalXML(v *lang.Value, opts Options) ([]byte, error) {
	root := opts.RootTag
	if root == "" {
		root = DefaultRootTag
	}

	if v == nil {
		return []byte("<" + root + "/>\n"), nil
	}

	var buf bytes.Buffer

	w := xmlWriter{enc: xml.NewEncoder(&buf)}
	if opts.Indent > 0 {
		w.enc.Indent("", strings.Repeat(" ", opts.Indent))
	}

	if err := w.element(root, v); err != nil {
		return nil, err
	}

	if err := w.enc.Flush(); err != nil {
		return nil, err
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// xmlWriter writes Values as elements in field order.
type xmlWriter struct {
	enc *xml.Encoder
}

// field writes the struct field name = v. A non-empty list repeats the
// field's element once per item.
func (w xmlWriter) field(name string, v *lang.Value) error {
	if v == nil || v.Kind != lang.KindList || len(v.List) == 0 {
		return w.element(name, v)
	}

	for _, item := range v.List {
		if err := w.element(name, item); err != nil {
			return err
		}
	}

	return nil
}

// element writes <name>v</name>.
func (w xmlWriter) element(name string, v *lang.Value) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}

	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	if v != nil {
		switch v.Kind {
		case lang.KindNumber:
			if err := w.enc.EncodeToken(xml.CharData(strconv.FormatFloat(v.Number, 'f', -1, 64))); err != nil {
				return err
			}

		case lang.KindText:
			if err := w.enc.EncodeToken(xml.CharData(v.Text)); err != nil {
				return err
			}

		case lang.KindList:
			for _, item := range v.List {
				if err := w.element(ItemTag, item); err != nil {
					return err
				}
			}

		case lang.KindStruct:
			for _, f := range v.Fields {
				if err := w.field(f.Key, f.Value); err != nil {
					return err
				}
			}

		default:
			return unknownKind(v)
		}
	}

	return w.enc.EncodeToken(start.End())
}

// UnmarshalXML decodes an XML document produced by [Marshal].
//
// XML carries no types, so scalars decode as text, and struct fields come
// back in key order. An element holding only [ItemTag] children decodes as a
// list, as does a repeated field; a field repeated once decodes as its item.
func UnmarshalXML(data []byte) (*lang.Value, error) {
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return nil, ErrEncode.Wrap(err).With(slog.String("format", FormatXML.String()))
	}

	for _, content := range m {
		return xmlValue(content), nil
	}

	return nil, nil
}

func xmlValue(x any) *lang.Value {
	switch x := x.(type) {
	case map[string]any:
		if items, ok := x[ItemTag]; ok && len(x) == 1 {
			if list, ok := items.([]any); ok {
				return xmlList(list)
			}

			return lang.NewList(xmlValue(items))
		}

		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		v := lang.NewStruct()
		for _, k := range keys {
			v.Set(k, xmlValue(x[k]))
		}

		return v

	case []any:
		return xmlList(x)

	case nil:
		return lang.NewText("")

	default:
		return lang.NewText(fmt.Sprint(x))
	}
}

func xmlList(items []any) *lang.Value {
	v := lang.NewList()
	for _, item := range items {
		v.List = append(v.List, xmlValue(item))
	}

	return v
}
