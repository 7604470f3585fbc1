package lang

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"sync"

	"github.com/ardnew/strux/log"
)

// Session evaluates a series of inputs against one constant table, so
// constants defined by one evaluation are visible to the next.
type Session struct {
	mu     sync.Mutex
	consts map[string]*Value
	logger log.Logger
}

// NewSession returns an empty session. Only [WithLogger] and
// [WithConstants] are meaningful.
func NewSession(opts ...Option) *Session {
	o := makeOptions(opts...)

	consts := o.consts
	if consts == nil {
		consts = make(map[string]*Value)
	}

	return &Session{consts: consts, logger: o.logger}
}

// Eval parses src with the session's constants. On success, constants defined
// by src are committed to the session. On failure the session is unchanged.
func (s *Session) Eval(ctx context.Context, src string) (*Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}

	p := NewParser(tokens, WithConstants(s.consts), WithLogger(s.logger))

	val, err := p.Parse()
	if err != nil {
		s.logger.DebugContext(ctx, "session eval failed", slog.Any("error", err))

		return nil, err
	}

	s.consts = p.consts

	s.logger.TraceContext(
		ctx,
		"session eval",
		slog.Int("tokens", len(tokens)),
		slog.Int("constants", len(s.consts)),
		slog.Bool("result", val != nil),
	)

	return val, nil
}

// Constants iterates over the session's constants by name in sorted order.
// Yielded values are copies.
func (s *Session) Constants() iter.Seq2[string, *Value] {
	s.mu.Lock()

	names := make([]string, 0, len(s.consts))
	for name := range s.consts {
		names = append(names, name)
	}

	snapshot := make(map[string]*Value, len(s.consts))
	for _, name := range names {
		snapshot[name] = s.consts[name].Clone()
	}

	s.mu.Unlock()

	slices.Sort(names)

	return func(yield func(string, *Value) bool) {
		for _, name := range names {
			if !yield(name, snapshot[name]) {
				return
			}
		}
	}
}

// Lookup returns a copy of the named constant.
func (s *Session) Lookup(name string) (*Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.consts[name]

	return val.Clone(), ok
}

// Reset discards all constants.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.consts)
}
