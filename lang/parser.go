package lang

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ardnew/strux/log"
)

// Option configures a [Parser].
type Option func(*options)

type options struct {
	logger log.Logger
	consts map[string]*Value
}

func makeOptions(opts ...Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger receiving trace output while parsing.
// The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConstants seeds the constant table. The parser works on copies; the
// caller's map and values are never modified.
func WithConstants(consts map[string]*Value) Option {
	return func(o *options) {
		if o.consts == nil {
			o.consts = make(map[string]*Value, len(consts))
		}

		for name, val := range consts {
			o.consts[name] = val.Clone()
		}
	}
}

// Parser builds a [Value] from a token sequence by recursive descent.
//
// The grammar, one token of lookahead and no backtracking:
//
//	Program := (SetStmt | Value)*
//	SetStmt := 'set' Ident '=' Value
//	Value   := Number | String | ConstRef | List | Struct
//	List    := '(list' Value* ')'
//	Struct  := 'struct' '{' (Ident '=' Value ','?)* '}'
//
// A Parser owns its cursor and constant table and must not be shared between
// goroutines.
type Parser struct {
	tokens []Token
	next   int
	consts map[string]*Value
	logger log.Logger
}

// NewParser returns a parser positioned at the first of tokens.
func NewParser(tokens []Token, opts ...Option) *Parser {
	o := makeOptions(opts...)

	consts := o.consts
	if consts == nil {
		consts = make(map[string]*Value)
	}

	return &Parser{tokens: tokens, consts: consts, logger: o.logger}
}

// Parse is shorthand for NewParser(tokens, opts...).Parse().
func Parse(tokens []Token, opts ...Option) (*Value, error) {
	return NewParser(tokens, opts...).Parse()
}

// Parse consumes the remaining tokens and returns the last top-level value
// that is not part of a set statement. It returns nil, nil when there is no
// such value. Constants defined along the way remain in the parser's table.
func (p *Parser) Parse() (*Value, error) {
	var result *Value

	for p.next < len(p.tokens) {
		if p.tokens[p.next].Kind == TokenSetKeyword {
			if err := p.parseSet(); err != nil {
				return nil, err
			}

			continue
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		result = val
	}

	return result, nil
}

// Constants returns a copy of the constant table.
func (p *Parser) Constants() map[string]*Value {
	out := make(map[string]*Value, len(p.consts))
	for name, val := range p.consts {
		out[name] = val.Clone()
	}

	return out
}

func (p *Parser) parseSet() error {
	if _, err := p.expect(TokenSetKeyword); err != nil {
		return err
	}

	name, err := p.expect(TokenIdent)
	if err != nil {
		return err
	}

	if _, err := p.expect(TokenEqual); err != nil {
		return err
	}

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	_, redefined := p.consts[name.Text]
	p.consts[name.Text] = val

	p.logger.Trace(
		"define constant",
		slog.String("name", name.Text),
		slog.String("kind", val.Kind.String()),
		slog.Bool("redefined", redefined),
		slog.String("pos", name.Pos.String()),
	)

	return nil
}

func (p *Parser) parseValue() (*Value, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, p.endOfInput(nil)
	}

	switch tok.Kind {
	case TokenNumber:
		p.next++

		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &SyntaxError{
				Msg: fmt.Sprintf("invalid number %s at position %d", tok.Text, tok.Pos.Offset),
				Pos: tok.Pos,
				Err: ErrUnexpectedToken,
			}
		}

		return NewNumber(n), nil

	case TokenString:
		p.next++

		return NewText(tok.Text[1 : len(tok.Text)-1]), nil

	case TokenConstRef:
		p.next++

		val, ok := p.consts[tok.name()]
		if !ok {
			return nil, &SyntaxError{
				Msg: fmt.Sprintf("unknown constant %s at position %d", tok.name(), tok.Pos.Offset),
				Pos: tok.Pos,
				Err: ErrUnknownConstant,
			}
		}

		p.logger.Trace(
			"resolve constant",
			slog.String("name", tok.name()),
			slog.String("pos", tok.Pos.String()),
		)

		return val.Clone(), nil

	case TokenListOpen:
		return p.parseList()

	case TokenStructKeyword:
		return p.parseStruct()

	default:
		return nil, &SyntaxError{
			Msg: fmt.Sprintf("unexpected token %s at position %d", tok.Kind, tok.Pos.Offset),
			Pos: tok.Pos,
			Err: ErrUnexpectedToken,
		}
	}
}

func (p *Parser) parseList() (*Value, error) {
	if _, err := p.expect(TokenListOpen); err != nil {
		return nil, err
	}

	list := NewList()

	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.endOfInput(kindRef(TokenParenClose))
		}

		if tok.Kind == TokenParenClose {
			p.next++

			return list, nil
		}

		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		list.List = append(list.List, item)
	}
}

func (p *Parser) parseStruct() (*Value, error) {
	if _, err := p.expect(TokenStructKeyword); err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenBraceOpen); err != nil {
		return nil, err
	}

	st := NewStruct()

	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.endOfInput(kindRef(TokenBraceClose))
		}

		if tok.Kind == TokenBraceClose {
			p.next++

			return st, nil
		}

		key, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenEqual); err != nil {
			return nil, err
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		if _, dup := st.Get(key.Text); dup {
			p.logger.Trace(
				"duplicate key",
				slog.String("key", key.Text),
				slog.String("pos", key.Pos.String()),
			)
		}

		st.Set(key.Text, val)

		if tok, ok := p.peek(); ok && tok.Kind == TokenComma {
			p.next++
		}
	}
}

func (p *Parser) peek() (Token, bool) {
	if p.next >= len(p.tokens) {
		return Token{}, false
	}

	return p.tokens[p.next], true
}

// expect consumes the next token if it has the given kind.
func (p *Parser) expect(kind TokenKind) (Token, error) {
	tok, ok := p.peek()
	if !ok {
		return Token{}, p.endOfInput(&kind)
	}

	if tok.Kind != kind {
		return Token{}, &SyntaxError{
			Msg: fmt.Sprintf(
				"expected %s, got %s at position %d",
				kind, tok.Kind, tok.Pos.Offset,
			),
			Pos: tok.Pos,
			Err: ErrUnexpectedToken,
		}
	}

	p.next++

	return tok, nil
}

// endOfInput reports exhausted input, naming the wanted kind if known.
func (p *Parser) endOfInput(want *TokenKind) *SyntaxError {
	pos := Pos{Line: 1, Column: 1}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		pos = last.Pos.advance(last.Text)
	}

	msg := "unexpected end of input"
	if want != nil {
		msg += ", expected " + want.String()
	}

	return &SyntaxError{Msg: msg, Pos: pos, Err: ErrUnexpectedEOF}
}

func kindRef(k TokenKind) *TokenKind { return &k }
