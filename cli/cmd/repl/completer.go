package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// keywords complete anywhere a value may start.
var keywords = []string{"set", "struct", "list"}

// ctrlCommands are the available control commands.
var ctrlCommands = []string{":help", ":consts", ":format", ":reset", ":clear", ":quit"}

// isWordBoundary reports whether r ends a completable word. Constant
// references keep their bars, so "|" is not a boundary.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '(', ')', '{', '}', '=', ',':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// candidates returns the completions for the word starting at wordStart.
//
// The first word of a line beginning with ':' completes to a control
// command, and the argument of :format to a result format. A word inside a
// single-quoted text literal has no completions. Otherwise keywords and the
// references of the defined constants are offered.
func candidates(input string, wordStart int, consts []string) []string {
	prefix := input[:wordStart]

	if trimmed := strings.TrimLeft(input, " \t"); strings.HasPrefix(trimmed, ":") {
		fields := strings.Fields(prefix)

		switch {
		case strings.TrimSpace(prefix) == "":
			return ctrlCommands
		case len(fields) == 1 && fields[0] == ":format":
			return formats
		default:
			return nil
		}
	}

	if strings.Count(prefix, "'")%2 == 1 {
		return nil
	}

	refs := make([]string, 0, len(keywords)+len(consts))
	refs = append(refs, keywords...)

	for _, name := range consts {
		refs = append(refs, "|"+name+"|")
	}

	return refs
}

// computeMatches ranks the candidates for the word under the cursor. An
// empty word has no matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	var names []string
	for name := range m.session.Constants() {
		names = append(names, name)
	}

	return fuzzy.Find(word, candidates(input, wordStart, names)), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1
		if i > 0 && (used+entryWidth > width || (!last && used+entryWidth+ellipsisWidth > width)) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
