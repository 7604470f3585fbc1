package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/strux/lang"
	"github.com/ardnew/strux/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads configuration
// files written in the strux language itself.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config")
//
// The document must be a struct whose keys are flag names, with underscores
// in place of hyphens. Values convert as follows:
//   - Text is passed through; booleans are written as 'true' or 'false'
//   - Numbers become their shortest decimal form ("4" for 4.0)
//   - Lists of scalars become comma-separated values for slice flags
//   - Nested structs are ignored
//
// Example config file:
//
//	struct {
//	  log_level = 'debug',
//	  log_pretty = 'false',
//	  indent = 4.0,
//	}
//
// Command-line flags override config file values. A file that fails to parse
// is reported and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		val, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		if val == nil || val.Kind != lang.KindStruct {
			return config{}, nil
		}

		return makeConfig(ctx, val), nil
	}
}

// config implements [kong.Resolver] for strux language configs.
type config map[string]any

// makeConfig flattens the fields of a struct value into flag values.
func makeConfig(ctx context.Context, v *lang.Value) config {
	conf := make(config, len(v.Fields))

	for _, f := range v.Fields {
		s, ok := flagText(f.Value)
		if !ok {
			log.DebugContext(ctx, "ignoring configuration entry",
				slog.String("key", f.Key),
				slog.String("kind", f.Value.Kind.String()),
			)

			continue
		}

		conf[f.Key] = s
	}

	return conf
}

// flagText renders v as a flag value kong can decode.
func flagText(v *lang.Value) (string, bool) {
	switch v.Kind {
	case lang.KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64), true

	case lang.KindText:
		return v.Text, true

	case lang.KindList:
		items := make([]string, len(v.List))

		for i, item := range v.List {
			if item.Kind == lang.KindList || item.Kind == lang.KindStruct {
				return "", false
			}

			items[i], _ = flagText(item)
		}

		return strings.Join(items, ","), true

	default:
		return "", false
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Flags use hyphens but identifiers cannot, so try both forms.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
