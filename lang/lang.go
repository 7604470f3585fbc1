package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"
)

// ParseString strips comments from src, lexes it, and parses the tokens.
// It returns nil, nil when src holds no value outside set statements.
func ParseString(ctx context.Context, src string, opts ...Option) (*Value, error) {
	o := makeOptions(opts...)

	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	o.logger.TraceContext(
		ctx,
		"lex",
		slog.Int("source_bytes", len(src)),
		slog.Int("tokens", len(tokens)),
	)

	return Parse(tokens, opts...)
}

// ParseReader reads all of r and parses it like [ParseString].
//
// Results are cached by source content. Callers seeding constants with
// [WithConstants] bypass the cache, since the result then depends on more
// than the source text.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Value, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	if o.consts != nil {
		o.logger.TraceContext(
			ctx,
			"cache bypass",
			slog.Int("seeded_constants", len(o.consts)),
		)

		return ParseString(ctx, string(data), opts...)
	}

	return parseStringCached(ctx, string(data), o, opts...)
}
