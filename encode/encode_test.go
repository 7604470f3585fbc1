package encode

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/clbanning/mxj"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/strux/lang"
)

func parse(t *testing.T, src string) *lang.Value {
	t.Helper()

	v, err := lang.ParseString(context.Background(), src)
	require.NoError(t, err)

	return v
}

const sample = `
set host = 'localhost'
struct {
  name = 'strux',
  servers = (list struct { host = |host|, port = 8080.0 } struct { host = 'db', port = 5432.0 }),
  ratio = .75,
  tags = (list),
  empty = struct {}
}`

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"yaml": FormatYAML, "YML": FormatYAML, " json ": FormatJSON,
		"msgpack": FormatMsgpack, "mpk": FormatMsgpack, "xml": FormatXML,
	}

	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"out.yaml", FormatYAML, true},
		{"dir.d/out.YML", FormatYAML, true},
		{"out.json", FormatJSON, true},
		{"out.mpk", FormatMsgpack, true},
		{"out.xml", FormatXML, true},
		{"out.txt", 0, false},
		{"-", 0, false},
	}

	for _, tt := range tests {
		got, ok := FormatFromPath(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)

		if tt.ok {
			assert.Equal(t, tt.want, got, tt.path)
		}
	}

	assert.Equal(t, []string{"yaml", "json", "msgpack", "xml"}, Formats())
}

func TestMarshal_YAMLRoundTrip(t *testing.T) {
	v := parse(t, sample)

	for _, indent := range []int{0, 2, 4} {
		out, err := Marshal(v, Options{Format: FormatYAML, Indent: indent})
		require.NoError(t, err)

		var decoded any
		require.NoError(t, yaml.Unmarshal(out, &decoded), string(out))

		back, err := lang.FromNative(decoded)
		require.NoError(t, err)
		assert.True(t, back.Equal(v), "indent %d:\n%s", indent, out)
	}
}

func TestMarshal_YAMLKeyOrder(t *testing.T) {
	v := parse(t, `struct { zeta = 1.0, alpha = 2.0 }`)

	out, err := Marshal(v, Options{Format: FormatYAML, Indent: 2})
	require.NoError(t, err)
	assert.Less(t, bytes.Index(out, []byte("zeta")), bytes.Index(out, []byte("alpha")))

	out, err = Marshal(v, Options{Format: FormatYAML, Indent: 2, SortKeys: true})
	require.NoError(t, err)
	assert.Less(t, bytes.Index(out, []byte("alpha")), bytes.Index(out, []byte("zeta")))

	assert.Equal(t, []string{"zeta", "alpha"}, v.Keys(), "SortKeys modified the input")
}

func TestMarshal_YAMLFlow(t *testing.T) {
	out, err := Marshal(parse(t, `struct { a = (list 'x') }`), Options{Format: FormatYAML})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "{"), string(out))
}

func TestMarshal_JSON(t *testing.T) {
	v := parse(t, `struct { b = 1.5, a = (list 'x' '<tag>') }`)

	out, err := Marshal(v, Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, `{"b":1.5,"a":["x","<tag>"]}`+"\n", string(out))

	out, err = Marshal(v, Options{Format: FormatJSON, Indent: 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1.5,\n  \"a\": [\n    \"x\",\n    \"<tag>\"\n  ]\n}\n", string(out))

	out, err = Marshal(v, Options{Format: FormatJSON, SortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":["x","<tag>"],"b":1.5}`+"\n", string(out))
}

func TestMarshal_Msgpack(t *testing.T) {
	v := parse(t, sample)

	out, err := Marshal(v, Options{Format: FormatMsgpack})
	require.NoError(t, err)

	back, err := UnmarshalMsgpack(out)
	require.NoError(t, err)
	assert.True(t, back.Equal(v))

	reordered := parse(t, `struct { b = 'y', a = 'x' }`)
	ordered := parse(t, `struct { a = 'x', b = 'y' }`)

	first, err := Marshal(reordered, Options{Format: FormatMsgpack})
	require.NoError(t, err)

	second, err := Marshal(ordered, Options{Format: FormatMsgpack})
	require.NoError(t, err)
	assert.Equal(t, first, second, "msgpack output is not canonical")
}

func TestMarshal_XML(t *testing.T) {
	v := parse(t, `struct { name = 'strux', note = '<a & b>', ports = (list 80.0 443.0) }`)

	for _, opts := range []Options{
		{Format: FormatXML},
		{Format: FormatXML, Indent: 2, RootTag: "config"},
	} {
		out, err := Marshal(v, opts)
		require.NoError(t, err)

		root := opts.RootTag
		if root == "" {
			root = DefaultRootTag
		}

		m, err := mxj.NewMapXml(out)
		require.NoError(t, err, string(out))

		doc, ok := m[root].(map[string]any)
		require.True(t, ok, "missing root %q in %s", root, out)
		assert.Equal(t, "strux", doc["name"])
		assert.Equal(t, "<a & b>", doc["note"])
		assert.Len(t, doc["ports"], 2)
	}
}

func TestMarshal_Nil(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatYAML, "null\n"},
		{FormatJSON, "null\n"},
		{FormatMsgpack, "\xc0"},
		{FormatXML, "<document/>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Format = tt.format

			out, err := Marshal(nil, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestEncode_NoPartialOutput(t *testing.T) {
	var buf bytes.Buffer

	err := Encode(&buf, lang.NewList(lang.NewNumber(math.NaN())), Options{Format: FormatJSON})
	require.ErrorIs(t, err, ErrEncode)
	assert.Zero(t, buf.Len())

	err = Encode(&buf, lang.NewText("x"), Options{Format: Format(42)})
	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Zero(t, buf.Len())
}

func TestEncode_Writes(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Encode(&buf, lang.NewText("hello"), Options{Format: FormatJSON}))
	assert.Equal(t, "\"hello\"\n", buf.String())
}

func TestMarshal_XMLShape(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{
			"field order",
			`struct { z = 1.0, a = 2.0 }`,
			Options{Format: FormatXML},
			"<document><z>1</z><a>2</a></document>\n",
		},
		{
			"sorted keys",
			`struct { z = 1.0, a = 2.0 }`,
			Options{Format: FormatXML, SortKeys: true},
			"<document><a>2</a><z>1</z></document>\n",
		},
		{
			"nested lists",
			`struct { l = (list (list 1.0 2.0) (list 3.0)) }`,
			Options{Format: FormatXML},
			"<document><l><element>1</element><element>2</element></l><l><element>3</element></l></document>\n",
		},
		{
			"list of structs",
			`(list struct { a = 1.0 } struct { b = 2.0 })`,
			Options{Format: FormatXML},
			"<document><element><a>1</a></element><element><b>2</b></element></document>\n",
		},
		{
			"scalar",
			`.5`,
			Options{Format: FormatXML, RootTag: "value"},
			"<value>0.5</value>\n",
		},
		{
			"indented empty list",
			`struct { e = (list), items = (list 1.0) }`,
			Options{Format: FormatXML, Indent: 2},
			"<document>\n  <e></e>\n  <items>1</items>\n</document>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Marshal(parse(t, tt.src), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestMarshal_XMLDecodes(t *testing.T) {
	v := parse(t, `struct { l = (list (list 1.0 2.0) (list 3.0)), s = (list struct { a = 1.0 } struct { a = 2.0 }) }`)

	out, err := Marshal(v, Options{Format: FormatXML, Indent: 2})
	require.NoError(t, err)

	m, err := mxj.NewMapXml(out)
	require.NoError(t, err, string(out))

	doc, ok := m[DefaultRootTag].(map[string]any)
	require.True(t, ok, string(out))

	l, ok := doc["l"].([]any)
	require.True(t, ok, "l: %#v", doc["l"])
	require.Len(t, l, 2)
	assert.Equal(t, map[string]any{"element": []any{"1", "2"}}, l[0])
	assert.Equal(t, map[string]any{"element": "3"}, l[1])

	s, ok := doc["s"].([]any)
	require.True(t, ok, "s: %#v", doc["s"])
	assert.Equal(t, []any{map[string]any{"a": "1"}, map[string]any{"a": "2"}}, s)
}

func TestUnmarshalXML(t *testing.T) {
	v := parse(t, `struct {
  name = 'strux',
  note = '<a & b>',
  tags = (list 'a' 'b'),
  grid = (list (list 'p' 'q') (list 'r')),
  nested = struct { k = 'v' },
  empty = ''
}`)

	for _, indent := range []int{0, 2} {
		out, err := Marshal(v, Options{Format: FormatXML, Indent: indent})
		require.NoError(t, err)

		back, err := UnmarshalXML(out)
		require.NoError(t, err)
		assert.True(t, back.Equal(v), "indent %d: %#v", indent, back.Native())
	}

	_, err := UnmarshalXML([]byte("<open>"))
	assert.ErrorIs(t, err, ErrEncode)
}
