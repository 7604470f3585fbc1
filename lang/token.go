package lang

import "strconv"

// TokenKind classifies a lexical unit.
type TokenKind int

const (
	TokenNumber        TokenKind = iota // Number
	TokenString                         // String
	TokenSetKeyword                     // SetKeyword
	TokenStructKeyword                  // StructKeyword
	TokenListOpen                       // ListOpen
	TokenConstRef                       // ConstRef
	TokenIdent                          // Ident
	TokenBraceOpen                      // BraceOpen
	TokenBraceClose                     // BraceClose
	TokenParenOpen                      // ParenOpen
	TokenParenClose                     // ParenClose
	TokenEqual                          // Equal
	TokenComma                          // Comma
)

var tokenKindName = [...]string{
	TokenNumber:        "Number",
	TokenString:        "String",
	TokenSetKeyword:    "SetKeyword",
	TokenStructKeyword: "StructKeyword",
	TokenListOpen:      "ListOpen",
	TokenConstRef:      "ConstRef",
	TokenIdent:         "Ident",
	TokenBraceOpen:     "BraceOpen",
	TokenBraceClose:    "BraceClose",
	TokenParenOpen:     "ParenOpen",
	TokenParenClose:    "ParenClose",
	TokenEqual:         "Equal",
	TokenComma:         "Comma",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindName) {
		return tokenKindName[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Pos locates a character in the caller's input.
// Offset counts characters from 0; Line and Column count from 1.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// String returns the position as "line:column".
func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// advance returns the position immediately following text when text begins
// at p.
func (p Pos) advance(text string) Pos {
	for _, r := range text {
		p.Offset++
		p.Column++

		if r == '\n' {
			p.Line++
			p.Column = 1
		}
	}

	return p
}

// Token is a classified slice of input text.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Pos
}

// String returns the token's kind followed by its quoted text.
func (t Token) String() string {
	return t.Kind.String() + " " + strconv.Quote(t.Text)
}

// name returns the identifier enclosed by a ConstRef token, or the token text
// for any other kind.
func (t Token) name() string {
	if t.Kind == TokenConstRef && len(t.Text) >= 2 {
		return t.Text[1 : len(t.Text)-1]
	}

	return t.Text
}
