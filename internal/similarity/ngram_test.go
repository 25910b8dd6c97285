package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNGrams(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}

	assert.Equal(t, []string{"a b", "b c", "c d"}, NGrams(tokens, 2))
	assert.Equal(t, []string{"a b c", "b c d"}, NGrams(tokens, 3))
	assert.Equal(t, []string{"a b c d"}, NGrams(tokens, 4))
}

func TestNGrams_ShorterThanN(t *testing.T) {
	for n := 2; n <= 5; n++ {
		tokens := make([]string, n-1)
		for i := range tokens {
			tokens[i] = "w"
		}
		assert.Empty(t, NGrams(tokens, n), "n=%d", n)
		assert.Empty(t, Shingles(tokens, n), "n=%d", n)
	}
	assert.Empty(t, NGrams(nil, 3))
	assert.Empty(t, NGrams([]string{"a", "b"}, 0))
}

func TestShingles_Unique(t *testing.T) {
	tokens := Tokenize("to be or not to be or not")

	grams := NGrams(tokens, 2)
	set := Shingles(tokens, 2)

	assert.Len(t, grams, 7)
	assert.Len(t, set, 4)
	assert.True(t, set.Contains("to be"))
	assert.True(t, set.Contains("not to"))
}
