package checker

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zeebo/blake3"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ErrNoDictionary is returned when the wordlist checker has nothing to check against.
var ErrNoDictionary = errors.New("no dictionary configured or found")

// SystemDictionaries are tried in order when no dictionary is configured.
var SystemDictionaries = []string{
	"/usr/share/hunspell/en_US.dic",
	"/usr/share/myspell/en_US.dic",
	"/usr/share/myspell/dicts/en_US.dic",
	"/usr/share/dict/words",
}

type entry struct {
	word   string
	folded []rune
}

// Dictionary is an immutable set of words compared case-insensitively.
type Dictionary struct {
	words    map[string]struct{}
	dashless map[string]struct{}
	entries  []entry
	sum      [32]byte
}

// fold normalizes and case-folds w. A Caser keeps state, so every call
// makes its own.
func fold(w string) string {
	return cases.Fold().String(norm.NFC.String(w))
}

// NewDictionary builds a dictionary from words.
func NewDictionary(words ...string) *Dictionary {
	d := &Dictionary{
		words:    make(map[string]struct{}, len(words)),
		dashless: make(map[string]struct{}),
	}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		f := fold(w)
		if _, dup := d.words[f]; dup {
			continue
		}
		d.words[f] = struct{}{}
		if strings.Contains(f, "-") {
			d.dashless[strings.ReplaceAll(f, "-", "")] = struct{}{}
		}
		d.entries = append(d.entries, entry{word: w, folded: []rune(f)})
	}
	sort.Slice(d.entries, func(i, j int) bool { return d.entries[i].word < d.entries[j].word })

	var buf []byte
	for _, e := range d.entries {
		buf = append(buf, string(e.folded)...)
		buf = append(buf, 0)
	}
	d.sum = blake3.Sum256(buf)
	return d
}

// LoadDictionary reads word lists: one word per line, optionally in
// hunspell .dic form (a leading count line, "/FLAGS" suffixes).
func LoadDictionary(paths []string, extra []string) (*Dictionary, error) {
	if len(paths) == 0 && len(extra) == 0 {
		for _, p := range SystemDictionaries {
			if _, err := os.Stat(p); err == nil {
				paths = []string{p}
				break
			}
		}
		if len(paths) == 0 {
			return nil, ErrNoDictionary
		}
	}
	words := append([]string(nil), extra...)
	for _, p := range paths {
		data, err := os.ReadFile(p) // #nosec G304 -- configured dictionary path
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		words = append(words, parseWordList(data)...)
	}
	return NewDictionary(words...), nil
}

func parseWordList(data []byte) []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if first {
			first = false
			if _, err := strconv.Atoi(line); err == nil {
				continue // счётчик слов в .dic
			}
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, '/'); i > 0 {
			line = line[:i]
		}
		out = append(out, line)
	}
	return out
}

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.entries) }

// Fingerprint identifies the dictionary content.
func (d *Dictionary) Fingerprint() string { return hex.EncodeToString(d.sum[:8]) }

// Contains reports whether w is a known word.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.words[fold(w)]
	return ok
}

// ContainsDashless reports whether w is a known word once its dashes are removed.
func (d *Dictionary) ContainsDashless(w string) bool {
	_, ok := d.words[strings.ReplaceAll(fold(w), "-", "")]
	return ok
}

// ContainsDashed reports whether a dashed dictionary word reads as w without its dashes.
func (d *Dictionary) ContainsDashed(w string) bool {
	_, ok := d.dashless[fold(w)]
	return ok
}

// Suggest returns up to n dictionary words closest to w by edit distance,
// spelled with the capitalization of w.
func (d *Dictionary) Suggest(w string, n int) []string {
	if n <= 0 {
		return nil
	}
	target := []rune(fold(w))
	limit := 2
	if len(target) <= 3 {
		limit = 1
	}
	type scored struct {
		word string
		dist int
	}
	var found []scored
	for _, e := range d.entries {
		if abs(len(e.folded)-len(target)) > limit {
			continue
		}
		if dist := editDistance(target, e.folded); dist <= limit {
			found = append(found, scored{word: e.word, dist: dist})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].dist < found[j].dist
	})
	out := make([]string, 0, min(n, len(found)))
	for _, s := range found {
		if len(out) == n {
			break
		}
		out = append(out, matchCase(w, s.word))
	}
	return out
}

// editDistance is the optimal string alignment distance: insertions,
// deletions, substitutions and adjacent transpositions cost one.
func editDistance(a, b []rune) int {
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(b)]
}

func matchCase(model, word string) string {
	first, _ := utf8.DecodeRuneInString(model)
	switch {
	case model != "" && strings.ToUpper(model) == model && strings.ToLower(model) != model && utf8.RuneCountInString(model) > 1:
		return strings.ToUpper(word)
	case unicode.IsUpper(first):
		r, size := utf8.DecodeRuneInString(word)
		return string(unicode.ToUpper(r)) + word[size:]
	}
	return word
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
