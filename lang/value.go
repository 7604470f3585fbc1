package lang

import (
	"log/slog"
	"math"
	"reflect"
	"slices"
	"strconv"
)

// Kind identifies the variant held by a [Value].
type Kind int

const (
	KindNumber Kind = iota // number
	KindText               // text
	KindList               // list
	KindStruct             // struct
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindStruct:
		return "struct"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a node of the parsed document. Exactly one payload field is
// meaningful, selected by Kind. A nil *Value means the input produced no
// result.
type Value struct {
	Kind   Kind
	Number float64
	Text   string
	List   []*Value
	Fields []*Field
}

// Field is one key/value entry of a struct.
type Field struct {
	Key   string
	Value *Value
}

// NewNumber returns a number value.
func NewNumber(n float64) *Value { return &Value{Kind: KindNumber, Number: n} }

// NewText returns a text value.
func NewText(s string) *Value { return &Value{Kind: KindText, Text: s} }

// NewList returns a list value holding items in order.
func NewList(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}

	return &Value{Kind: KindList, List: items}
}

// NewStruct returns a struct value with the given fields. Repeated keys
// follow the rules of [Value.Set].
func NewStruct(fields ...*Field) *Value {
	v := &Value{Kind: KindStruct, Fields: make([]*Field, 0, len(fields))}
	for _, f := range fields {
		v.Set(f.Key, f.Value)
	}

	return v
}

// Set assigns val to key in a struct value. An existing key keeps its
// position and takes the new value; a new key is appended.
// Set is a no-op for other kinds.
func (v *Value) Set(key string, val *Value) {
	if v == nil || v.Kind != KindStruct {
		return
	}

	for _, f := range v.Fields {
		if f.Key == key {
			f.Value = val

			return
		}
	}

	v.Fields = append(v.Fields, &Field{Key: key, Value: val})
}

// Get returns the value of key in a struct value.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != KindStruct {
		return nil, false
	}

	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}

	return nil, false
}

// Keys returns the keys of a struct value in insertion order.
func (v *Value) Keys() []string {
	if v == nil || v.Kind != KindStruct {
		return nil
	}

	keys := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		keys[i] = f.Key
	}

	return keys
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}

	c := &Value{Kind: v.Kind, Number: v.Number, Text: v.Text}

	if v.List != nil {
		c.List = make([]*Value, len(v.List))
		for i, item := range v.List {
			c.List[i] = item.Clone()
		}
	}

	if v.Fields != nil {
		c.Fields = make([]*Field, len(v.Fields))
		for i, f := range v.Fields {
			c.Fields[i] = &Field{Key: f.Key, Value: f.Value.Clone()}
		}
	}

	return c
}

// Equal reports whether v and w hold the same document. Struct fields are
// compared by key regardless of order.
func (v *Value) Equal(w *Value) bool {
	if v == nil || w == nil {
		return v == w
	}

	if v.Kind != w.Kind {
		return false
	}

	switch v.Kind {
	case KindNumber:
		return v.Number == w.Number

	case KindText:
		return v.Text == w.Text

	case KindList:
		return slices.EqualFunc(v.List, w.List, (*Value).Equal)

	case KindStruct:
		if len(v.Fields) != len(w.Fields) {
			return false
		}

		for _, f := range v.Fields {
			g, ok := w.Get(f.Key)
			if !ok || !f.Value.Equal(g) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// Native converts v into plain Go values: float64, string, []any, and
// map[string]any. A nil v yields nil.
func (v *Value) Native() any {
	if v == nil {
		return nil
	}

	switch v.Kind {
	case KindNumber:
		return v.Number

	case KindText:
		return v.Text

	case KindList:
		out := make([]any, len(v.List))
		for i, item := range v.List {
			out[i] = item.Native()
		}

		return out

	case KindStruct:
		out := make(map[string]any, len(v.Fields))
		for _, f := range v.Fields {
			out[f.Key] = f.Value.Native()
		}

		return out

	default:
		return nil
	}
}

// FromNative converts plain Go values into a [Value]. Integers and floats
// become numbers, strings become text, slices and arrays become lists, and
// maps with string keys become structs with keys in sorted order.
func FromNative(x any) (*Value, error) {
	if x == nil {
		return nil, nil //nolint:nilnil
	}

	switch t := x.(type) {
	case *Value:
		return t.Clone(), nil
	case float64:
		return NewNumber(t), nil
	case string:
		return NewText(t), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return NewNumber(rv.Float()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewNumber(float64(rv.Int())), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return NewNumber(float64(rv.Uint())), nil

	case reflect.String:
		return NewText(rv.String()), nil

	case reflect.Slice, reflect.Array:
		items := make([]*Value, rv.Len())

		for i := range items {
			item, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			if item == nil {
				return nil, ErrInvalidValue.With(
					slog.Int("index", i),
					slog.String("issue", "nil list element"),
				)
			}

			items[i] = item
		}

		return NewList(items...), nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, ErrInvalidValue.With(
				slog.String("type", rv.Type().String()),
				slog.String("issue", "map key is not a string"),
			)
		}

		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}

		slices.Sort(keys)

		fields := make([]*Field, len(keys))

		for i, key := range keys {
			elem := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))

			item, err := FromNative(elem.Interface())
			if err != nil {
				return nil, err
			}

			if item == nil {
				return nil, ErrInvalidValue.With(
					slog.String("key", key),
					slog.String("issue", "nil struct field"),
				)
			}

			fields[i] = &Field{Key: key, Value: item}
		}

		return NewStruct(fields...), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil //nolint:nilnil
		}

		return FromNative(rv.Elem().Interface())

	default:
		return nil, ErrInvalidValue.With(
			slog.String("type", rv.Type().String()),
		)
	}
}

// isFiniteNonNegative reports whether n can be written as a decimal literal.
func isFiniteNonNegative(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0) && !math.Signbit(n)
}
