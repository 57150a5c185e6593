package wordlist

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

type candidate struct {
	word     string
	distance int
	rank     int
}

// GetCorrectionsForMisspelling returns dictionary and session words within
// the configured edit distance of word, closest first. Ties keep dictionary
// order, and session words come after dictionary words. The capitalization
// of word is carried over to the suggestions.
func (c *Checker) GetCorrectionsForMisspelling(word string) []string {
	word = strings.TrimSpace(word)
	if word == "" || !checkable(word) {
		return []string{}
	}

	key := []rune(c.key(word))
	seen := make(map[string]struct{})
	var found []candidate

	consider := func(entry, folded string, rank int) {
		if _, dup := seen[folded]; dup {
			return
		}
		seen[folded] = struct{}{}

		d := osaDistance(key, []rune(folded), c.maxDistance)
		if d == 0 || d > c.maxDistance {
			return
		}
		found = append(found, candidate{word: entry, distance: d, rank: rank})
	}

	rank := 0
	if c.dict != nil {
		for i, entry := range c.dict.entries {
			consider(string(entry), c.dict.folded[i], rank)
			rank++
		}
	}
	for _, w := range c.sessionOrder {
		consider(w, c.key(w), rank)
		rank++
	}

	slices.SortStableFunc(found, func(a, b candidate) int {
		if a.distance != b.distance {
			return a.distance - b.distance
		}
		return a.rank - b.rank
	})
	if len(found) > c.maxSuggestions {
		found = found[:c.maxSuggestions]
	}

	out := make([]string, 0, len(found))
	for _, cand := range found {
		out = append(out, matchCase(word, cand.word))
	}
	return out
}

// osaDistance is the optimal string alignment distance between a and b:
// insertions, deletions, substitutions and adjacent transpositions. It gives
// up early and returns limit+1 once every cell of a row exceeds limit.
func osaDistance(a, b []rune, limit int) int {
	if abs(len(a)-len(b)) > limit {
		return limit + 1
	}

	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		rowMin := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > limit {
			return limit + 1
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// matchCase applies the capitalization pattern of word to suggestion:
// all caps stays all caps, a leading capital stays a leading capital.
func matchCase(word, suggestion string) string {
	switch {
	case isUpper(word) && utf8.RuneCountInString(word) > 1:
		return strings.ToUpper(suggestion)
	case startsUpper(word):
		r, size := utf8.DecodeRuneInString(suggestion)
		return string(unicode.ToUpper(r)) + suggestion[size:]
	default:
		return suggestion
	}
}

func isUpper(s string) bool {
	letters := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters = true
		}
	}
	return letters
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
