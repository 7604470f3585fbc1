package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ardnew/strux/lang"
)

// Lex prints the token stream of a document, one token per line as
// "kind text line:column". Positions refer to the concatenated sources.
type Lex struct {
	Source []string `arg:"" default:"-" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`

	stdout io.Writer
}

// Run executes the lex command.
func (l *Lex) Run(ctx context.Context) error {
	src, err := NewSource(l.Source...)
	if err != nil {
		return err
	}

	text, err := src.ReadAll()
	if err != nil {
		return err
	}

	tokens, err := lang.Lex(text)
	if err != nil {
		return err
	}

	w := l.stdout
	if w == nil {
		w = os.Stdout
	}

	bw := bufio.NewWriter(w)
	for _, tok := range tokens {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fmt.Fprintf(bw, "%s %s %s\n", tok.Kind, strconv.Quote(tok.Text), tok.Pos)
	}

	return bw.Flush()
}
