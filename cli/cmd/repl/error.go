package repl

import "github.com/ardnew/strux/lang"

// Sentinel errors.
var (
	ErrOutOfBounds   = lang.NewError("index out of range")
	ErrUnknownFormat = lang.NewError("unknown result format")
)
