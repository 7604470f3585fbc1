package lang

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// lexicon is the ordered rule table. Rules are tried top to bottom and the
// first anchored match wins, so keywords and "(list" must stay ahead of the
// identifier and parenthesis rules they overlap.
var lexicon = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `\d*\.\d+`},
	{Name: "String", Pattern: `'[^']*'`},
	{Name: "SetKeyword", Pattern: `set\b`},
	{Name: "StructKeyword", Pattern: `struct\b`},
	{Name: "ListOpen", Pattern: `\(list\b`},
	{Name: "ConstRef", Pattern: `\|[a-z][a-z0-9_]*\|`},
	{Name: "Ident", Pattern: `[a-z][a-z0-9_]*`},
	{Name: "BraceOpen", Pattern: `\{`},
	{Name: "BraceClose", Pattern: `\}`},
	{Name: "ParenOpen", Pattern: `\(`},
	{Name: "ParenClose", Pattern: `\)`},
	{Name: "Equal", Pattern: `=`},
	{Name: "Comma", Pattern: `,`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

// symbol maps lexer token types onto token kinds. Types absent from the map
// (whitespace) produce no token.
var symbol = func() map[lexer.TokenType]TokenKind {
	sym := lexicon.Symbols()
	m := make(map[lexer.TokenType]TokenKind, len(tokenKindName))

	for kind, name := range tokenKindName {
		if typ, ok := sym[name]; ok {
			m[typ] = TokenKind(kind)
		}
	}

	return m
}()

// Tokenize splits text into tokens. Token positions are relative to text.
//
// Comments are not recognized; use [Lex] for input that may contain them.
func Tokenize(text string) ([]Token, error) {
	return tokenize(text, nil, newLocator(text))
}

// Lex removes block comments from source and splits the remainder into tokens.
// Token positions, including those reported by errors, are relative to source.
func Lex(source string) ([]Token, error) {
	text, cut := stripComments(source)

	return tokenize(text, cut, newLocator(source))
}

// tokenize lexes text, translating each byte offset through cut into the
// input tracked by loc.
func tokenize(text string, cut []excision, loc *locator) ([]Token, error) {
	lex, err := lexicon.LexString("", text)
	if err != nil {
		return nil, invalidCharacter(text, 0, cut, loc)
	}

	var tokens []Token

	for {
		tok, err := lex.Next()
		if err != nil {
			var perr interface{ Position() lexer.Position }
			if errors.As(err, &perr) {
				return nil, invalidCharacter(text, perr.Position().Offset, cut, loc)
			}

			return nil, invalidCharacter(text, 0, cut, loc)
		}

		if tok.EOF() {
			return tokens, nil
		}

		kind, ok := symbol[tok.Type]
		if !ok {
			continue
		}

		tokens = append(tokens, Token{
			Kind: kind,
			Text: tok.Value,
			Pos:  loc.at(original(tok.Pos.Offset, cut)),
		})
	}
}

func invalidCharacter(
	text string,
	offset int,
	cut []excision,
	loc *locator,
) *SyntaxError {
	r, _ := utf8.DecodeRuneInString(text[min(offset, len(text)):])
	pos := loc.at(original(offset, cut))

	return &SyntaxError{
		Msg: fmt.Sprintf("unexpected character %q at position %d", r, pos.Offset),
		Pos: pos,
		Err: ErrInvalidCharacter,
	}
}
