// Package lang parses the strux configuration language into a tree of
// [Value] nodes.
//
// # Syntax
//
// A document is a sequence of set statements and values. Set statements
// bind a name to a value; the document's result is the last value that is
// not part of a set statement.
//
//	--[[ block comments may span lines ]]
//	set port = 8080.0
//	set hosts = (list 'alpha' 'beta')
//
//	struct {
//	  port = |port|,
//	  hosts = |hosts|,
//	  ratio = .25,
//	  nested = struct { name = 'x' }
//	}
//
// Numbers always carry a fractional part (1.0 or .5, never 1). Text is
// enclosed in single quotes and has no escapes. Identifiers are lowercase
// letters, digits and underscores, starting with a letter. A constant
// reference |name| must follow the set statement defining name, and each
// reference receives its own copy of the bound value.
//
// # Pipeline
//
// [StripComments] removes block comments, [Tokenize] splits text into
// [Token] values, and [Parser] builds the tree. [Lex] combines the first two
// while keeping token positions relative to the original input.
// [ParseString] and [ParseReader] run the whole pipeline; [Session] keeps
// constants across inputs for interactive use.
//
// Every lexical or grammatical failure is a [*SyntaxError] whose Err field
// identifies the failure class.
package lang
