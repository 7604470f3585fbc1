package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// cache maps the xxh3 hash of a source text to its *entry.
//
//nolint:gochecknoglobals
var cache sync.Map

// entry holds the outcome of parsing one source text. The parse runs once;
// concurrent callers with the same source wait on once.
type entry struct {
	once  sync.Once
	value *Value
	err   error
}

// parseStringCached parses source through the content cache. Callers receive
// copies, so they may modify the result freely.
func parseStringCached(
	ctx context.Context,
	source string,
	o options,
	opts ...Option,
) (*Value, error) {
	hash := xxh3.HashString(source)
	key := strconv.FormatUint(hash, 36)

	got, hit := cache.LoadOrStore(key, new(entry))

	ent, ok := got.(*entry)
	if !ok {
		return nil, ErrInvalidValue.With(
			slog.String("issue", "invalid cache entry type"),
		)
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	ent.once.Do(func() {
		ent.value, ent.err = ParseString(ctx, source, opts...)
	})

	if ent.err != nil {
		if se, ok := ent.err.(*SyntaxError); ok { //nolint:errorlint
			return nil, se.clone()
		}

		return nil, ent.err
	}

	return ent.value.Clone(), nil
}

// ClearCache discards every cached parse result.
func ClearCache() {
	cache.Clear()
}

// CacheLen returns the number of cached parse results.
func CacheLen() int {
	n := 0
	cache.Range(func(any, any) bool {
		n++

		return true
	})

	return n
}
