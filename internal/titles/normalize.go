// Package titles normalizes and compares movie and collection titles.
package titles

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips accents, so "Amélie" and "AMELIE" compare equal.
func Fold(s string) string {
	return RemoveAccents(strings.ToLower(s))
}

// RemoveAccents strips combining marks after canonical decomposition.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// Clean normalizes a title for matching.
// Folds case and accents, expands "&", drops a leading article and a trailing
// "collection", removes punctuation and collapses whitespace.
func Clean(title string) string {
	s := Fold(title)
	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())

	if len(fields) > 1 {
		switch fields[0] {
		case "the", "a", "an":
			fields = fields[1:]
		}
	}
	if len(fields) > 1 && fields[len(fields)-1] == "collection" {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// Similarity scores two titles between 0 and 1 using Jaro-Winkler over
// cleaned titles. A query contained word-for-word in the candidate scores
// at least 0.9.
func Similarity(query, candidate string) float64 {
	q, c := Clean(query), Clean(candidate)
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return 1
	}

	score := float64(edlib.JaroWinklerSimilarity(q, c))
	if strings.Contains(" "+c+" ", " "+q+" ") {
		score = max(score, 0.9)
	}
	return score
}

// ContainsAny reports whether the folded title contains any folded pattern.
func ContainsAny(title string, patterns []string) bool {
	t := Fold(title)
	for _, p := range patterns {
		if strings.Contains(t, Fold(p)) {
			return true
		}
	}
	return false
}
