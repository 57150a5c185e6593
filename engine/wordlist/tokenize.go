package wordlist

import (
	"unicode"
	"unicode/utf16"
)

type token struct {
	word       string
	start, end int // UTF-16 code units
}

// tokenize splits text into runs of letters, marks and digits. An apostrophe
// between two letters stays inside the word ("don't"). Tokens containing a
// digit are dropped.
func tokenize(text []uint16) []token {
	var (
		tokens []token
		start  = -1
		digits bool
	)

	flush := func(end int) {
		if start >= 0 && !digits {
			tokens = append(tokens, token{
				word:  string(utf16.Decode(text[start:end])),
				start: start,
				end:   end,
			})
		}
		start = -1
		digits = false
	}

	for i := 0; i < len(text); {
		r, width := decodeAt(text, i)

		switch {
		case unicode.IsLetter(r) || unicode.IsMark(r):
			if start < 0 {
				start = i
			}
		case unicode.IsDigit(r):
			if start < 0 {
				start = i
			}
			digits = true
		case isApostrophe(r) && start >= 0 && i+width < len(text):
			next, _ := decodeAt(text, i+width)
			prev, _ := decodeBefore(text, i)
			if !unicode.IsLetter(prev) || !unicode.IsLetter(next) {
				flush(i)
			}
		default:
			flush(i)
		}

		i += width
	}
	flush(len(text))

	return tokens
}

// decodeAt decodes the rune starting at code unit i.
func decodeAt(text []uint16, i int) (rune, int) {
	r := rune(text[i])
	if utf16.IsSurrogate(r) && i+1 < len(text) {
		if dec := utf16.DecodeRune(r, rune(text[i+1])); dec != unicode.ReplacementChar {
			return dec, 2
		}
	}
	return r, 1
}

// decodeBefore decodes the rune ending right before code unit i.
func decodeBefore(text []uint16, i int) (rune, int) {
	if i >= 2 {
		if dec := utf16.DecodeRune(rune(text[i-2]), rune(text[i-1])); dec != unicode.ReplacementChar {
			return dec, 2
		}
	}
	return rune(text[i-1]), 1
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

// checkable reports whether a single word is subject to spellchecking.
func checkable(word string) bool {
	letters := false
	for _, r := range word {
		if unicode.IsDigit(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters = true
		}
	}
	return letters
}
