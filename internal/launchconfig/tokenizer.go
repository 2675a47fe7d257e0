package launchconfig

import (
	"strings"
	"unicode"
)

// Tokenize splits a raw override string into tokens. Tokens are separated by
// whitespace; a double-quoted run is part of a single token even when it
// contains whitespace, and the quotes are retained in the emitted token (the
// resolver strips them from the value portion later). Empty input yields no
// tokens.
//
// An unterminated quote is handled leniently: the in-progress token runs to
// the end of the input and is emitted as-is, opening quote included.
// Tokenize never fails.
func Tokenize(raw string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false

	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case unicode.IsSpace(r) && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}
