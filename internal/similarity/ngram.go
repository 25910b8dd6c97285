package similarity

import "strings"

// separator joins the tokens of one n-gram. Tokens never contain spaces.
const separator = " "

// Set is an unordered set of n-grams or words.
type Set map[string]struct{}

// Contains reports whether s holds v.
func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// NGrams returns every run of n consecutive tokens, in order and with
// repetitions. A sequence shorter than n (or n < 1) yields an empty slice.
func NGrams(tokens []string, n int) []string {
	if n < 1 || len(tokens) < n {
		return []string{}
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], separator))
	}
	return out
}

// Shingles returns the distinct n-grams of tokens.
func Shingles(tokens []string, n int) Set {
	grams := NGrams(tokens, n)
	set := make(Set, len(grams))
	for _, g := range grams {
		set[g] = struct{}{}
	}
	return set
}
