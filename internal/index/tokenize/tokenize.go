// Package tokenize splits free text into the lowercase word tokens the lexical index works on.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTokenLength is the shortest token kept. Shorter tokens are noise such as "a" or "4".
const MinTokenLength = 2

// Tokenize lowercases text, turns every rune that is not a word rune or whitespace
// into a separator, splits on whitespace and drops single-rune tokens.
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	cleaned := strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Detokenize joins tokens with single spaces. Tokenize(Detokenize(Tokenize(s))) equals Tokenize(s).
func Detokenize(tokens []string) string {
	return strings.Join(tokens, " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
