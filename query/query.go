// Package query selects parts of a document with expr-lang expressions.
//
// The fields of a struct document are variables of the expression, and the
// whole document is available as root:
//
//	servers[0].host
//	filter(servers, .port > 1024)
//	root.name + "-" + version
//	mung.prefix(path, "/opt/bin")
//
// The mung namespace edits PATH-style text: mung.prefix(list, items...)
// moves items to the front of a separator-delimited list, and
// mung.prefixif(list, pred, items...) does so only for items accepted by
// pred. Document fields shadow these names.
package query

import (
	"context"
	"log/slog"
	"maps"
	"os"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/strux/lang"
)

// RootName is the variable bound to the whole document.
const RootName = "root"

// Predefined errors (sentinel values).
var (
	ErrCompile  = lang.NewError("query compilation failed")
	ErrEvaluate = lang.NewError("query evaluation failed")
	ErrResult   = lang.NewError("query result is not a document value")
)

// Query is a compiled expression that can be applied to many documents.
type Query struct {
	source  string
	program *vm.Program
}

// Compile checks expression against the variables of doc's shape and
// returns a reusable Query. Documents passed to [Query.Select] should have
// the same top-level keys as doc.
func Compile(expression string, doc *lang.Value) (*Query, error) {
	program, err := expr.Compile(expression, expr.Env(env(doc)))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("query", expression))
	}

	return &Query{source: expression, program: program}, nil
}

// String returns the expression source.
func (q *Query) String() string { return q.source }

// Select evaluates q against doc. A nil result yields a nil value.
func (q *Query) Select(ctx context.Context, doc *lang.Value) (*lang.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := expr.Run(q.program, env(doc))
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(slog.String("query", q.source))
	}

	val, err := lang.FromNative(out)
	if err != nil {
		return nil, ErrResult.Wrap(err).With(
			slog.String("query", q.source),
			slog.Any("result", out),
		)
	}

	return val, nil
}

// Select compiles expression and evaluates it against doc.
func Select(ctx context.Context, doc *lang.Value, expression string) (*lang.Value, error) {
	q, err := Compile(expression, doc)
	if err != nil {
		return nil, err
	}

	return q.Select(ctx, doc)
}

// builtins are the functions available to every expression.
//
//nolint:gochecknoglobals
var builtins = map[string]any{
	"mung": map[string]any{
		"prefix":   mungPrefix,
		"prefixif": mungPrefixIf,
	},
}

// env exposes doc to expressions. Document fields shadow [builtins], and a
// field named like [RootName] is shadowed by the document itself.
func env(doc *lang.Value) map[string]any {
	vars := maps.Clone(builtins)

	if m, ok := doc.Native().(map[string]any); ok {
		for k, v := range m {
			vars[k] = v
		}
	}

	vars[RootName] = doc.Native()

	return vars
}

func mungPrefix(list string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(list string, pred func(string) bool, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(pred),
	).String()
}
