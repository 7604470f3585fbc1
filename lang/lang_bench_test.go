package lang

import (
	"context"
	"strings"
	"testing"
)

func benchmarkSource(n int) string {
	var sb strings.Builder

	sb.WriteString("--[[ generated ]]\nset base = struct { host = 'localhost', port = 8080.0 }\n")
	sb.WriteString("struct {\n")

	for i := range n {
		sb.WriteString("  k")
		sb.WriteString(strings.Repeat("x", i%7))
		sb.WriteString(" = (list |base| 1.5 'text' struct { inner = .25 }),\n")
	}

	sb.WriteString("}\n")

	return sb.String()
}

func BenchmarkLex(b *testing.B) {
	src := benchmarkSource(200)
	b.SetBytes(int64(len(src)))

	for b.Loop() {
		if _, err := Lex(src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseString(b *testing.B) {
	src := benchmarkSource(200)
	ctx := context.Background()
	b.SetBytes(int64(len(src)))

	for b.Loop() {
		if _, err := ParseString(ctx, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseReader_Cached(b *testing.B) {
	ClearCache()
	b.Cleanup(ClearCache)

	src := benchmarkSource(200)
	ctx := context.Background()
	b.SetBytes(int64(len(src)))

	for b.Loop() {
		if _, err := ParseReader(ctx, strings.NewReader(src)); err != nil {
			b.Fatal(err)
		}
	}
}
