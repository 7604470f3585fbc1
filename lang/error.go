package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrInvalidCharacter = NewError("invalid character")
	ErrUnexpectedEOF    = NewError("unexpected end of input")
	ErrUnexpectedToken  = NewError("unexpected token")
	ErrUnknownConstant  = NewError("unknown constant")
	ErrReadInput        = NewError("failed to read input")
	ErrUnrepresentable  = NewError("value cannot be written as source")
	ErrInvalidValue     = NewError("invalid value")
)

// SyntaxError reports malformed input. It is the only error produced while
// lexing or parsing.
type SyntaxError struct {
	Msg string // Human-readable description, including the position
	Pos Pos    // Location in the caller's input
	Err error  // One of the ErrInvalidCharacter, ErrUnexpectedEOF, ... sentinels
}

// Error implements the error interface.
func (e *SyntaxError) Error() string { return e.Msg }

// Unwrap returns the sentinel classifying the error.
func (e *SyntaxError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Msg),
		slog.Int("offset", e.Pos.Offset),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("kind", e.Err.Error()))
	}

	return slog.GroupValue(attrs...)
}

func (e *SyntaxError) clone() *SyntaxError {
	c := *e

	return &c
}

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && len(t.attrs) == 0 && t.msg != "" &&
		t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
// The receiver is not modified.
func (e *Error) With(attrs ...slog.Attr) *Error {
	merged := make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	merged = append(merged, e.attrs...)
	merged = append(merged, attrs...)

	return &Error{msg: e.msg, err: e.err, attrs: merged}
}
