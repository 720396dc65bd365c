package textutil

import "strings"

// minTokenLength filters connective noise ("a", "to", "is") out of
// similarity comparisons.
const minTokenLength = 3

// tokenSet lowercases text, splits on whitespace, and drops short tokens,
// returning the unique surviving tokens.
func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, token := range fields {
		if len(token) < minTokenLength {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// Similarity computes a bounded [0,1] token-overlap score between two text
// snapshots. Identical strings score 1 without tokenizing. After filtering,
// two empty token sets are treated as identical (1); exactly one empty set
// scores 0. Otherwise the score is the shared token count divided by the
// larger set size. Symmetric by construction.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			shared++
		}
	}

	max := len(setA)
	if len(setB) > max {
		max = len(setB)
	}
	return float64(shared) / float64(max)
}
