package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/strux/lang"
	"github.com/ardnew/strux/log"
	"github.com/ardnew/strux/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configHeader precedes the generated settings.
const configHeader = "--[[ %s configuration: keys are flag names with '_' for '-' ]]\n"

// Init generates a configuration file from the current global flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath), slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	text, err := lang.FormatString(i.settings(ktx), defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	text = fmt.Sprintf(configHeader, ktx.Model.Name) + text

	if err := os.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, []byte(text), 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.InfoContext(ctx, "initialized configuration file", slog.String("path", confPath))

	return nil
}

// settings builds the configuration struct from the application's global
// flags, skipping help, version, and profiling flags.
func (i *Init) settings(ktx *kong.Context) *lang.Value {
	conf := lang.NewStruct()

	ignore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx.FlagValue(flag)); val != nil {
			conf.Set(strings.ReplaceAll(flag.Name, "-", "_"), val)
		}
	}

	return conf
}

// flagValue converts a flag value to a document value, or nil if it is
// unset or has no representation. The language has no booleans or negative
// numbers, so those are written as text, which the configuration loader
// hands back to kong for parsing.
func flagValue(v any) *lang.Value {
	switch v := v.(type) {
	case nil:
		return nil

	case bool:
		return lang.NewText(strconv.FormatBool(v))

	case string:
		if v == "" {
			return nil
		}

		return lang.NewText(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		items := make([]*lang.Value, len(v))
		for i, s := range v {
			items[i] = lang.NewText(s)
		}

		return lang.NewList(items...)

	case fmt.Stringer:
		return flagValue(v.String())

	default:
		val, err := lang.FromNative(v)
		if err != nil || (val.Kind == lang.KindNumber && val.Number < 0) {
			return lang.NewText(fmt.Sprint(v))
		}

		return val
	}
}
