package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ardnew/strux/lang"
)

func TestLexRun(t *testing.T) {
	in := writeFile(t, t.TempDir(), "in.sx", "set a = 'x'\n(list |a|)")

	var buf bytes.Buffer

	l := Lex{Source: []string{in}, stdout: &buf}
	if err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := `SetKeyword "set" 1:1
Ident "a" 1:5
Equal "=" 1:7
String "'x'" 1:9
ListOpen "(list" 2:1
ConstRef "|a|" 2:7
ParenClose ")" 2:10
`
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestLexRun_Error(t *testing.T) {
	in := writeFile(t, t.TempDir(), "in.sx", "struct { a = @ }")

	l := Lex{Source: []string{in}, stdout: new(bytes.Buffer)}
	if err := l.Run(context.Background()); !errors.Is(err, lang.ErrInvalidCharacter) {
		t.Errorf("Run() error = %v, want ErrInvalidCharacter", err)
	}
}
