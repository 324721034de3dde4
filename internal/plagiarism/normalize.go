package plagiarism

import (
	"strings"
	"unicode"
)

// literalPlaceholder substitutes every string/char literal body so that
// literal contents never contribute to similarity.
const literalPlaceholder = "str"

// Normalize turns raw source text into a canonical form: line comments
// (// and #) and block comments are stripped, string and character
// literal contents are replaced with a fixed placeholder, whitespace
// runs collapse to single spaces and the result is lower-cased.
// Deterministic, no side effects.
func Normalize(source string) string {
	var b strings.Builder
	b.Grow(len(source))

	runes := []rune(source)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			for i+1 < len(runes) && !(runes[i] == '*' && runes[i+1] == '/') {
				i++
			}
			if i+1 < len(runes) {
				i += 2
			} else {
				i = len(runes)
			}
			b.WriteRune(' ')
		case r == '"' || r == '\'' || r == '`':
			quote := r
			i++
			for i < len(runes) && runes[i] != quote {
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
				}
				i++
			}
			if i < len(runes) {
				i++
			}
			b.WriteRune(quote)
			b.WriteString(literalPlaceholder)
			b.WriteRune(quote)
		default:
			b.WriteRune(r)
			i++
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")
	return strings.ToLower(collapsed)
}

// Tokenize splits canonical text into an ordered token sequence.
// Identifier and number runs form one token each, every operator or
// punctuation rune is its own token, whitespace only separates.
func Tokenize(canonical string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range canonical {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			current.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()

	return tokens
}
