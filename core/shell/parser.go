// Package shell breaks command lines into pipeline stages and words.
//
// Quoting is deliberately simple: either quote character (' or ") flips the
// quote state, regardless of which character opened the quoted span, so
// 'a" is a closed quote. There are no escape sequences. An unterminated quote
// extends to the end of the input.
package shell

import "strings"

const (
	// PipeDelimiter separates pipeline stages.
	PipeDelimiter = '|'
)

// quoteState tracks whether a scan is inside a quoted span. Split and
// Tokenize each keep their own instance but share the toggle rule.
type quoteState bool

// observe updates the state for r and reports whether r was a quote.
func (q *quoteState) observe(r rune) bool {
	if r == '"' || r == '\'' {
		*q = !*q
		return true
	}
	return false
}

func (q quoteState) quoted() bool {
	return bool(q)
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

// Split divides line into subcommands on unquoted pipe characters.
//
// Quotes and surrounding whitespace are preserved in each subcommand. Empty
// spans between delimiters are kept as "" so they are not confused with
// whitespace-only subcommands, but a delimiter at the very end of the line
// doesn't produce a trailing empty subcommand.
func Split(line string) []string {
	var (
		subcommands []string
		quotes      quoteState
		start       int
	)

	for i, r := range line {
		if quotes.observe(r) {
			continue
		}
		if r == PipeDelimiter && !quotes.quoted() {
			subcommands = append(subcommands, line[start:i])
			start = i + 1
		}
	}

	if start < len(line) {
		subcommands = append(subcommands, line[start:])
	}

	return subcommands
}

// Tokenize splits a subcommand into words on unquoted spaces and tabs.
//
// Runs of whitespace never produce empty words and quote characters are
// removed from the output. A blank subcommand yields no words, so callers
// must check the length before using the first word as a program name.
func Tokenize(subcommand string) []string {
	var (
		tokens []string
		quotes quoteState
		word   strings.Builder
	)

	flush := func() {
		if word.Len() > 0 {
			tokens = append(tokens, word.String())
			word.Reset()
		}
	}

	for _, r := range subcommand {
		switch {
		case quotes.observe(r):
			// Quotes delimit, they're not part of the word.
		case isBlank(r) && !quotes.quoted():
			flush()
		default:
			word.WriteRune(r)
		}
	}
	flush()

	return tokens
}
