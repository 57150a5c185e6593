// Package engine defines the boundary between the dispatch core and the
// linguistic backend that actually checks spelling.
//
// The core only ever talks to an Engine. Backends are picked at construction
// time through a Factory, so dictionaries and suggestion algorithms can be
// swapped without touching the core.
package engine

// MisspelledRange is a half-open interval [Start, End) into checked text,
// measured in UTF-16 code units.
type MisspelledRange struct {
	Start int
	End   int
}

// Len returns the number of code units covered by the range.
func (r MisspelledRange) Len() int {
	return r.End - r.Start
}

// Valid reports whether the range lies inside a text of n code units and is non-empty.
func (r MisspelledRange) Valid(n int) bool {
	return r.Start >= 0 && r.Start < r.End && r.End <= n
}

// Engine is the capability set of a spellchecking backend.
//
// Implementations need not be safe for concurrent use: the core never calls
// two methods of the same Engine at the same time. An Engine may keep
// references into a buffer passed to SetDictionaryToContents when it returns
// true; it must not when it returns false. Engines holding resources can
// implement io.Closer, which is called once when the owner is closed.
type Engine interface {
	// CheckSpelling returns the misspelled words of text, ordered by Start.
	CheckSpelling(text []uint16) []MisspelledRange

	// IsMisspelled reports whether a single word is misspelled.
	IsMisspelled(word string) bool

	// GetCorrectionsForMisspelling returns suggestions, best first.
	GetCorrectionsForMisspelling(word string) []string

	// SetDictionary switches to a named dictionary. False if not found or not loadable.
	SetDictionary(language string) bool

	// SetDictionaryToContents loads a dictionary from memory. False if unparsable.
	SetDictionaryToContents(contents []byte) bool

	// Add adds a word to the session dictionary.
	Add(word string)

	// Remove undoes Add.
	Remove(word string)

	// GetAvailableDictionaries lists the dictionaries discoverable under path.
	GetAvailableDictionaries(path string) []string
}

// Factory creates a fresh Engine. Each spellchecker owns the engine its factory returned.
type Factory func() (Engine, error)
