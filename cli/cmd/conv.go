package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/strux/encode"
	"github.com/ardnew/strux/lang"
	"github.com/ardnew/strux/log"
	"github.com/ardnew/strux/query"
)

// Conv converts a document to one of the [encode] formats.
type Conv struct {
	Output   string   `help:"Output file or '-' for stdout."                                       required:"" short:"o"`
	Source   []string `default:"-"        help:"Source input file(s) or '-' for stdin."                          short:"f"`
	Format   string   `default:""         enum:",${formatEnum}" help:"Output format (default from output extension, else yaml)."                  placeholder:"${enum}"`
	Indent   int      `default:"2"        help:"Indent width; 0 selects flow or compact output."`
	SortKeys bool     `help:"Sort struct keys."`
	Select   string   `help:"Expression selecting the part of the document to convert." placeholder:"EXPR"`
	RootTag  string   `default:"document" help:"Root element name of xml output."`
	Watch    bool     `help:"Convert again whenever a source file changes."                        short:"w"`

	stdout io.Writer
}

// Run executes the conv command.
func (c *Conv) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := NewSource(c.Source...)
	if err != nil {
		return err
	}

	opts, err := c.options()
	if err != nil {
		return err
	}

	if !c.Watch {
		return c.convert(ctx, src, opts)
	}

	if src.Stdin() {
		return ErrWatchStdin
	}

	return watch(ctx, src.Paths(), func() error {
		return c.convert(ctx, src, opts)
	})
}

// options resolves the encoder settings. An explicit format wins over the
// output file extension.
func (c *Conv) options() (encode.Options, error) {
	opts := encode.DefaultOptions()
	opts.Indent = c.Indent
	opts.SortKeys = c.SortKeys

	if c.RootTag != "" {
		opts.RootTag = c.RootTag
	}

	switch {
	case c.Format != "":
		f, err := encode.ParseFormat(c.Format)
		if err != nil {
			return opts, err
		}

		opts.Format = f

	default:
		if f, ok := encode.FormatFromPath(c.Output); ok {
			opts.Format = f
		}
	}

	return opts, nil
}

// convert parses src, applies the selection, and writes the encoded result.
// The output is not touched unless every step succeeds.
func (c *Conv) convert(ctx context.Context, src *Source, opts encode.Options) error {
	val, err := src.Parse(ctx)
	if err != nil {
		return err
	}

	if c.Select != "" {
		val, err = query.Select(ctx, val, c.Select)
		if err != nil {
			return err
		}
	}

	data, err := encode.Marshal(val, opts)
	if err != nil {
		return err
	}

	if err := c.write(data); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", c.Output))
	}

	log.DebugContext(ctx, "converted",
		slog.String("output", c.Output),
		slog.String("format", opts.Format.String()),
		slog.Int("bytes", len(data)),
	)

	return nil
}

// write replaces the output with data. Files are written to a temporary
// sibling and renamed into place, so readers never see partial output.
func (c *Conv) write(data []byte) error {
	if c.Output == stdinSource {
		w := c.stdout
		if w == nil {
			w = os.Stdout
		}

		_, err := w.Write(data)

		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.Output), "."+filepath.Base(c.Output)+".*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec
		_ = os.Remove(tmp.Name())

		return err
	}

	return os.Rename(tmp.Name(), c.Output)
}

// parseSource is shared by the commands that print a document.
func parseSource(ctx context.Context, paths []string) (*lang.Value, error) {
	src, err := NewSource(paths...)
	if err != nil {
		return nil, err
	}

	return src.Parse(ctx)
}
