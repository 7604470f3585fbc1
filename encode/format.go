package encode

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/strux/lang"
)

// Format selects an output encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatMsgpack
	FormatXML
)

// DefaultFormat is used when neither a flag nor the output file name selects
// a format.
const DefaultFormat = FormatYAML

// Defaults for [Options].
const (
	DefaultIndent  = 2
	DefaultRootTag = "document"
)

// Predefined errors (sentinel values).
var (
	ErrUnknownFormat = lang.NewError("unknown output format")
	ErrEncode        = lang.NewError("encoding failed")
)

var formatName = [...]string{
	FormatYAML:    "yaml",
	FormatJSON:    "json",
	FormatMsgpack: "msgpack",
	FormatXML:     "xml",
}

// alias maps accepted names and file extensions to formats.
var alias = map[string]Format{
	"yaml":    FormatYAML,
	"yml":     FormatYAML,
	"json":    FormatJSON,
	"msgpack": FormatMsgpack,
	"mpk":     FormatMsgpack,
	"mp":      FormatMsgpack,
	"xml":     FormatXML,
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatName) {
		return formatName[f]
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Formats returns the canonical format names.
func Formats() []string {
	return append([]string(nil), formatName[:]...)
}

// ParseFormat returns the format named by s, accepting common aliases such
// as "yml" and "mpk".
func ParseFormat(s string) (Format, error) {
	if f, ok := alias[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}

	return 0, ErrUnknownFormat.With(
		slog.String("format", s),
		slog.String("valid", strings.Join(Formats(), ",")),
	)
}

// FormatFromPath infers a format from the extension of path.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, false
	}

	f, ok := alias[strings.ToLower(ext)]

	return f, ok
}
