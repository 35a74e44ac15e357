package textstats

import (
	"strings"
	"unicode"
)

// Tokenize segments a string into word tokens without relying on
// whitespace alone. Runs of letters/digits form one token; CJK ideographs
// and kana have no word boundaries, so each such rune is its own token.
func Tokenize(s string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range s {
		switch {
		case isCJK(r):
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// isCJK reports whether the rune belongs to a script without explicit
// word boundaries.
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r)
}
