package plagiarism

import (
	"math"
	"strings"
)

// ngramSeparator joins the tokens of one window into an opaque set key.
// A non-printable separator avoids collisions between token boundaries.
const ngramSeparator = "\x1f"

// NGrams returns the set of every contiguous window of n tokens.
// Fewer than n tokens yields the empty set.
func NGrams(tokens []string, n int) map[string]struct{} {
	set := make(map[string]struct{})
	if n <= 0 || len(tokens) < n {
		return set
	}

	for i := 0; i+n <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+n], ngramSeparator)] = struct{}{}
	}

	return set
}

// Jaccard computes intersection-over-union between two n-gram sets as
// an integer percentage, rounded to nearest. Two empty sets score 0.
// Symmetric, and always within [0, 100].
func Jaccard(a, b map[string]struct{}) int {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	intersection := 0
	for key := range small {
		if _, ok := large[key]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return int(math.Round(float64(intersection) / float64(union) * 100))
}
