package wordlist

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// dictionary is an immutable word list.
type dictionary struct {
	// entries keep the original spelling, in file order. For .dic input
	// they are sub-slices of the source buffer.
	entries [][]byte
	folded  []string
	index   map[string]struct{}
}

func (d *dictionary) contains(key string) bool {
	_, ok := d.index[key]
	return ok
}

func newDictionary(capacity int) *dictionary {
	return &dictionary{
		entries: make([][]byte, 0, capacity),
		folded:  make([]string, 0, capacity),
		index:   make(map[string]struct{}, capacity),
	}
}

func (d *dictionary) add(entry []byte, fold cases.Caser) {
	key := fold.String(strings.ReplaceAll(string(entry), "’", "'"))
	if _, dup := d.index[key]; dup {
		return
	}
	d.entries = append(d.entries, entry)
	d.folded = append(d.folded, key)
	d.index[key] = struct{}{}
}

// parseContents picks the format of an in-memory dictionary.
// It returns nil when contents hold no usable word.
func parseContents(contents []byte, fold cases.Caser) *dictionary {
	body := bytes.TrimPrefix(contents, utf8BOM)
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '[', '{':
		return parseJSON(trimmed, fold)
	default:
		return parseDic(body, fold)
	}
}

// parseDic reads Hunspell .dic text: an optional word count on the first
// line, then one entry per line. Affix flags after '/' and morphological
// fields after whitespace are dropped. Lines starting with '#' are comments.
func parseDic(src []byte, fold cases.Caser) *dictionary {
	src = bytes.TrimPrefix(src, utf8BOM)
	if !utf8.Valid(src) {
		return nil
	}

	d := newDictionary(bytes.Count(src, []byte{'\n'}) + 1)
	first := true

	for len(src) > 0 {
		var line []byte
		if i := bytes.IndexByte(src, '\n'); i >= 0 {
			line, src = src[:i], src[i+1:]
		} else {
			line, src = src, nil
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if first {
			first = false
			if isCount(line) {
				continue
			}
		}

		if i := bytes.IndexByte(line, '/'); i >= 0 {
			line = line[:i]
		}
		if i := bytes.IndexAny(line, " \t"); i >= 0 {
			line = line[:i]
		}
		if len(line) == 0 {
			continue
		}
		d.add(line, fold)
	}

	if len(d.entries) == 0 {
		return nil
	}
	return d
}

// parseJSON reads a JSON array of words or an object with a "words" array.
// Non-string elements are skipped.
func parseJSON(src []byte, fold cases.Caser) *dictionary {
	if !gjson.ValidBytes(src) {
		return nil
	}

	list := gjson.ParseBytes(src)
	if list.IsObject() {
		list = list.Get("words")
	}
	if !list.IsArray() {
		return nil
	}

	words := list.Array()
	d := newDictionary(len(words))
	for _, w := range words {
		if w.Type != gjson.String {
			continue
		}
		if word := strings.TrimSpace(w.String()); word != "" {
			d.add([]byte(word), fold)
		}
	}

	if len(d.entries) == 0 {
		return nil
	}
	return d
}

func isCount(line []byte) bool {
	for _, b := range line {
		if b < '0' || b > '9' {
			return false
		}
	}
	return true
}
