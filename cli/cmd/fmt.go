package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/strux/lang"
)

// Fmt prints a document as canonical source with constants inlined.
type Fmt struct {
	Indent int      `default:"2" help:"Indent width; 0 prints a single line." short:"i"`
	Source []string `arg:""      default:"-"                                  help:"Source input file(s) or '-' for stdin." name:"source" optional:""`

	stdout io.Writer
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	val, err := parseSource(ctx, f.Source)
	if err != nil {
		return err
	}

	out, err := lang.FormatString(val, f.Indent)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "fmt"))
	}

	if out != "" && f.Indent <= 0 {
		out += "\n"
	}

	w := f.stdout
	if w == nil {
		w = os.Stdout
	}

	_, err = io.WriteString(w, out)

	return err
}
