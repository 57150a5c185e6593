// Package wordlist is an in-memory, word-list spellchecking backend.
//
// It implements engine.Engine on top of plain word lists: Hunspell-style
// .dic files (affix flags are ignored) or JSON word arrays. Lookups are
// case-insensitive; suggestions are ranked by edit distance.
package wordlist

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/utkarsh5026/spellq/engine"
	"golang.org/x/text/cases"
)

const (
	dicExt = ".dic"

	defaultMaxSuggestions = 10
	defaultMaxDistance    = 2
)

// Checker is a word-list engine. Like every engine it is not safe for concurrent use.
type Checker struct {
	dirs           []string
	maxSuggestions int
	maxDistance    int

	fold     cases.Caser
	language string
	dict     *dictionary

	session      map[string]struct{} // folded words added with Add
	sessionOrder []string
}

var _ engine.Engine = (*Checker)(nil)

// Option configures a Checker.
type Option func(*Checker)

// WithDictionaryDirs sets the directories SetDictionary searches, in order.
func WithDictionaryDirs(dirs ...string) Option {
	return func(c *Checker) {
		if len(dirs) > 0 {
			c.dirs = slices.Clone(dirs)
		}
	}
}

// WithMaxSuggestions caps the number of corrections returned.
func WithMaxSuggestions(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.maxSuggestions = n
		}
	}
}

// WithMaxDistance sets the largest edit distance a suggestion may have.
func WithMaxDistance(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.maxDistance = n
		}
	}
}

// New creates a Checker with no dictionary loaded. Until one is loaded no
// word is reported as misspelled.
func New(opts ...Option) *Checker {
	c := &Checker{
		dirs:           DefaultDictionaryDirs(),
		maxSuggestions: defaultMaxSuggestions,
		maxDistance:    defaultMaxDistance,
		fold:           cases.Fold(),
		session:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Factory returns an engine.Factory producing Checkers with the given options.
func Factory(opts ...Option) engine.Factory {
	return func() (engine.Engine, error) {
		return New(opts...), nil
	}
}

// DefaultDictionaryDirs returns the working directory, the entries of
// $DICPATH and the usual system hunspell locations.
func DefaultDictionaryDirs() []string {
	dirs := []string{"."}
	if env := os.Getenv("DICPATH"); env != "" {
		dirs = append(dirs, filepath.SplitList(env)...)
	}
	return append(dirs, "/usr/share/hunspell", "/usr/share/myspell", "/usr/share/myspell/dicts")
}

// Language returns the name of the loaded dictionary, or "" when none is
// loaded or it came from SetDictionaryToContents.
func (c *Checker) Language() string {
	return c.language
}

// Size returns the number of words in the loaded dictionary.
func (c *Checker) Size() int {
	if c.dict == nil {
		return 0
	}
	return len(c.dict.entries)
}

// SetDictionary loads <language>.dic from the first configured directory that has it.
// "en-US" also matches en_US.dic.
func (c *Checker) SetDictionary(language string) bool {
	language = strings.TrimSpace(language)
	if language == "" {
		return false
	}

	names := []string{language}
	if alt := strings.ReplaceAll(language, "-", "_"); alt != language {
		names = append(names, alt)
	}

	for _, dir := range c.dirs {
		for _, name := range names {
			data, err := os.ReadFile(filepath.Join(dir, name+dicExt))
			if err != nil {
				continue
			}
			d := parseDic(data, c.fold)
			if d == nil {
				continue
			}
			c.dict = d
			c.language = name
			return true
		}
	}
	return false
}

// SetDictionaryToContents loads a dictionary from memory: .dic text or a
// JSON document (an array of words or {"words": [...]}). For .dic text the
// loaded entries are views into contents, which must stay unchanged for as
// long as the dictionary is in use.
func (c *Checker) SetDictionaryToContents(contents []byte) bool {
	d := parseContents(contents, c.fold)
	if d == nil {
		return false
	}
	c.dict = d
	c.language = ""
	return true
}

// IsMisspelled reports whether word is neither in the dictionary nor added
// to the session. Blank words and words with digits are never misspelled.
func (c *Checker) IsMisspelled(word string) bool {
	word = strings.TrimSpace(word)
	if word == "" || c.dict == nil || !checkable(word) {
		return false
	}

	key := c.key(word)
	if _, ok := c.session[key]; ok {
		return false
	}
	return !c.dict.contains(key)
}

// CheckSpelling tokenizes text and returns the misspelled words in order.
func (c *Checker) CheckSpelling(text []uint16) []engine.MisspelledRange {
	if c.dict == nil {
		return nil
	}

	var ranges []engine.MisspelledRange
	for _, tok := range tokenize(text) {
		if c.IsMisspelled(tok.word) {
			ranges = append(ranges, engine.MisspelledRange{Start: tok.start, End: tok.end})
		}
	}
	return ranges
}

// Add adds word to the session dictionary.
func (c *Checker) Add(word string) {
	word = strings.TrimSpace(word)
	if word == "" {
		return
	}

	key := c.key(word)
	if _, ok := c.session[key]; ok {
		return
	}
	c.session[key] = struct{}{}
	c.sessionOrder = append(c.sessionOrder, word)
}

// Remove removes word from the session dictionary. Words of the loaded
// dictionary itself are not affected.
func (c *Checker) Remove(word string) {
	word = strings.TrimSpace(word)
	key := c.key(word)
	if _, ok := c.session[key]; !ok {
		return
	}
	delete(c.session, key)
	c.sessionOrder = slices.DeleteFunc(c.sessionOrder, func(w string) bool {
		return c.key(w) == key
	})
}

// GetAvailableDictionaries lists the language names of the .dic files in path, sorted.
func (c *Checker) GetAvailableDictionaries(path string) []string {
	if path == "" {
		path = "."
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return []string{}
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), dicExt) {
			continue
		}
		if name := strings.TrimSuffix(e.Name(), dicExt); name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// key is the lookup form of a word: typographic apostrophes unified, case folded.
func (c *Checker) key(word string) string {
	return c.fold.String(strings.ReplaceAll(word, "’", "'"))
}
