package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNGramsWindowCount(t *testing.T) {
	tokens := []string{"a", "b", "c", "d", "e"}

	grams := NGrams(tokens, 4)

	assert.Len(t, grams, 2)
	assert.Contains(t, grams, "a\x1fb\x1fc\x1fd")
	assert.Contains(t, grams, "b\x1fc\x1fd\x1fe")
}

func TestNGramsTooFewTokens(t *testing.T) {
	assert.Empty(t, NGrams([]string{"a", "b", "c"}, 4))
	assert.Empty(t, NGrams(nil, 4))
}

func TestJaccardBothEmpty(t *testing.T) {
	assert.Equal(t, 0, Jaccard(map[string]struct{}{}, map[string]struct{}{}))
}

func TestJaccardIdenticalSets(t *testing.T) {
	set := NGrams([]string{"for", "(", "i", "=", "0", ";", "i", "<", "n"}, 4)

	assert.Equal(t, 100, Jaccard(set, set))
}

func TestJaccardDisjointSets(t *testing.T) {
	a := NGrams([]string{"a", "b", "c", "d"}, 4)
	b := NGrams([]string{"w", "x", "y", "z"}, 4)

	assert.Equal(t, 0, Jaccard(a, b))
}

func TestJaccardSymmetricAndBounded(t *testing.T) {
	cases := [][2][]string{
		{{"a", "b", "c", "d", "e"}, {"a", "b", "c", "d", "f"}},
		{{"x", "y", "z", "w"}, {"a", "b", "c", "d", "e", "f", "g"}},
		{{"a", "a", "a", "a", "a"}, {"a", "a", "a", "a"}},
	}

	for _, tc := range cases {
		setA := NGrams(tc[0], 4)
		setB := NGrams(tc[1], 4)

		ab := Jaccard(setA, setB)
		ba := Jaccard(setB, setA)

		assert.Equal(t, ab, ba)
		assert.GreaterOrEqual(t, ab, 0)
		assert.LessOrEqual(t, ab, 100)
	}
}

func TestJaccardPartialOverlap(t *testing.T) {
	// Sets {ab, bc} and {bc, cd}: intersection 1, union 3.
	a := map[string]struct{}{"ab": {}, "bc": {}}
	b := map[string]struct{}{"bc": {}, "cd": {}}

	assert.Equal(t, 33, Jaccard(a, b))
}

func TestJaccardOneEmpty(t *testing.T) {
	a := map[string]struct{}{"ab": {}}

	assert.Equal(t, 0, Jaccard(a, map[string]struct{}{}))
	assert.Equal(t, 0, Jaccard(map[string]struct{}{}, a))
}
