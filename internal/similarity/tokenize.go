package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Tokenize normalises text and splits it into an ordered token sequence.
//
// Text is NFKC-normalised and lower-cased; every rune that is not a letter
// or a number acts as a separator. Empty or punctuation-only input yields an
// empty, non-nil slice.
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}
	// cases.Caser is stateful, so one per call.
	lower := cases.Lower(language.Und).String(norm.NFKC.String(text))
	return strings.FieldsFunc(lower, isSeparator)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

// Words returns the distinct tokens of text.
func Words(text string) Set {
	tokens := Tokenize(text)
	set := make(Set, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
