package lang

import (
	"regexp"
	"unicode/utf8"
)

// blockComment matches one "--[[ ... ]]" block. The body may span lines and
// ends at the first "]]"; blocks do not nest.
var blockComment = regexp.MustCompile(`(?s)--\[\[.*?\]\]`)

// StripComments returns src with every block comment removed.
func StripComments(src string) string {
	return blockComment.ReplaceAllLiteralString(src, "")
}

// excision records a run of bytes removed from the original input.
// at is the byte offset in the stripped text where the run used to begin.
type excision struct {
	at    int
	width int
}

// stripComments removes block comments like [StripComments] and returns the
// excisions needed to translate stripped offsets back to the original input.
func stripComments(src string) (string, []excision) {
	spans := blockComment.FindAllStringIndex(src, -1)
	if len(spans) == 0 {
		return src, nil
	}

	cut := make([]excision, 0, len(spans))
	out := make([]byte, 0, len(src))
	prev := 0

	for _, span := range spans {
		out = append(out, src[prev:span[0]]...)
		cut = append(cut, excision{at: len(out), width: span[1] - span[0]})
		prev = span[1]
	}

	out = append(out, src[prev:]...)

	return string(out), cut
}

// original maps a byte offset in stripped text to the byte offset of the same
// character in the original input.
func original(offset int, cut []excision) int {
	for _, c := range cut {
		if c.at > offset {
			break
		}

		offset += c.width
	}

	return offset
}

// locator converts byte offsets of src into character positions. Offsets are
// expected in non-decreasing order; a smaller offset rescans from the start.
type locator struct {
	src  string
	byte int
	pos  Pos
}

func newLocator(src string) *locator {
	return &locator{src: src, pos: Pos{Line: 1, Column: 1}}
}

func (l *locator) at(offset int) Pos {
	if offset < l.byte {
		l.byte, l.pos = 0, Pos{Line: 1, Column: 1}
	}

	offset = min(offset, len(l.src))

	for l.byte < offset {
		r, n := utf8.DecodeRuneInString(l.src[l.byte:])
		l.byte += n
		l.pos.Offset++
		l.pos.Column++

		if r == '\n' {
			l.pos.Line++
			l.pos.Column = 1
		}
	}

	return l.pos
}
