package similarity

// Jaccard returns |a∩b| / |a∪b|. It is 0 when either set is empty, so
// degenerate texts are never similar to anything, themselves included.
func Jaccard(a, b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if large.Contains(k) {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Compare scores two texts with n-gram Jaccard similarity.
func Compare(a, b string, n int) float64 {
	return Jaccard(Shingles(Tokenize(a), n), Shingles(Tokenize(b), n))
}

// Profile is a text prepared once for repeated comparisons.
type Profile struct {
	Tokens   []string
	Shingles Set
}

// NewProfile tokenises and shingles text.
func NewProfile(text string, n int) Profile {
	tokens := Tokenize(text)
	return Profile{Tokens: tokens, Shingles: Shingles(tokens, n)}
}

// NGramCount returns the number of (non-distinct) n-grams in the profile.
func (p Profile) NGramCount(n int) int {
	if n < 1 || len(p.Tokens) < n {
		return 0
	}
	return len(p.Tokens) - n + 1
}
