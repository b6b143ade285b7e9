package knowledge

import "github.com/pmezard/go-difflib/difflib"

// Similarity returns the normalized similarity of two strings in [0,1]: twice
// the number of characters in matching contiguous blocks divided by the total
// length of both strings. The comparison is character-wise so short questions
// still produce meaningful scores.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}
