package teamname

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity scores two strings in [0,1]; 1 means identical.
type Similarity func(a, b string) float64

// LevenshteinRatio is 1 - editDistance/longerLength, counted in runes.
func LevenshteinRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longer := max(la, lb)
	if longer == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longer)
}
