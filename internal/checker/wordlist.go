package checker

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"lector/internal/chunk"
	"lector/internal/source"
)

// WordlistConfig tunes the dictionary checker.
type WordlistConfig struct {
	Dictionaries []string
	Words        []string
	// Transform regexes are tried on every word. A match without capture
	// groups accepts the word; capture groups are checked instead of it.
	Transform []string
	// AllowConcatenated accepts "e-mail" when "email" is known.
	AllowConcatenated bool
	// AllowDashed accepts "email" when "e-mail" is known.
	AllowDashed bool
	// AllowEmojis accepts words made of emoji and vulgar fractions.
	AllowEmojis    bool
	MaxSuggestions int
}

// Wordlist flags words missing from a dictionary.
type Wordlist struct {
	dict      *Dictionary
	transform []*regexp.Regexp
	cfg       WordlistConfig
}

// NewWordlist compiles the transform patterns of cfg.
func NewWordlist(dict *Dictionary, cfg WordlistConfig) (*Wordlist, error) {
	w := &Wordlist{dict: dict, cfg: cfg}
	for _, expr := range cfg.Transform {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("wordlist transform %q: %w", expr, err)
		}
		w.transform = append(w.transform, re)
	}
	return w, nil
}

// Fingerprint identifies everything the checker's verdicts depend on.
func (w *Wordlist) Fingerprint() string {
	return fmt.Sprintf("%s/%s/%t%t%t/%d", w.dict.Fingerprint(), strings.Join(w.cfg.Transform, "\x00"),
		w.cfg.AllowConcatenated, w.cfg.AllowDashed, w.cfg.AllowEmojis, w.cfg.MaxSuggestions)
}

// Check flags every unknown word of the markup-free chunk text.
func (w *Wordlist) Check(ctx context.Context, c *chunk.Chunk) ([]Suggestion, error) {
	var out []Suggestion
	for _, tok := range tokenize(c.Plain()) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, frag := range w.fragments(tok) {
			if w.known(frag.Text) {
				continue
			}
			out = append(out, Suggestion{
				Range:        frag.Range,
				Message:      fmt.Sprintf("unknown word %q", frag.Text),
				Replacements: w.dict.Suggest(frag.Text, w.cfg.MaxSuggestions),
				Detector:     KindWordlist,
			})
		}
	}
	return out, nil
}

// fragments applies the first matching transform to tok.
func (w *Wordlist) fragments(tok token) []token {
	for _, re := range w.transform {
		m := re.FindStringSubmatchIndex(tok.Text)
		if m == nil {
			continue
		}
		if len(m) == 2 {
			return nil
		}
		var out []token
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] < 0 || m[g+1] <= m[g] {
				continue
			}
			r := source.ByteToRuneRange(tok.Text, m[g], m[g+1])
			out = append(out, token{Range: r.Shift(tok.Range.Start), Text: tok.Text[m[g]:m[g+1]]})
		}
		return out
	}
	return []token{tok}
}

func (w *Wordlist) known(word string) bool {
	switch {
	case looksLikeCode(word):
		return true
	case onlySymbols(word):
		return w.cfg.AllowEmojis
	case w.dict.Contains(word):
		return true
	}
	for _, suffix := range []string{"'s", "’s"} {
		if base, ok := strings.CutSuffix(word, suffix); ok && base != "" && w.dict.Contains(base) {
			return true
		}
	}
	if strings.Contains(word, "-") {
		if w.cfg.AllowConcatenated && w.dict.ContainsDashless(word) {
			return true
		}
		for _, part := range strings.Split(word, "-") {
			if part != "" && !w.known(part) {
				return false
			}
		}
		return true
	}
	return w.cfg.AllowDashed && w.dict.ContainsDashed(word)
}
