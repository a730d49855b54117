package checker

import (
	"strings"
	"unicode"

	"lector/internal/source"
)

type token struct {
	Range source.Range
	Text  string
}

// punctuation trimmed from both ends of a whitespace delimited token
const punctuation = ".,;:!?()[]{}\"'`*_~<>«»“”‘’…/|"

// tokenize splits text at whitespace and trims punctuation. Ranges are runes.
func tokenize(text string) []token {
	runes := []rune(text)
	var out []token
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		s, e := i, j
		for s < e && strings.ContainsRune(punctuation, runes[s]) {
			s++
		}
		for e > s && strings.ContainsRune(punctuation, runes[e-1]) {
			e--
		}
		if e > s {
			out = append(out, token{Range: source.Range{Start: s, End: e}, Text: string(runes[s:e])})
		}
		i = j
	}
	return out
}

// looksLikeCode reports identifiers and paths that no dictionary knows.
func looksLikeCode(w string) bool {
	if strings.ContainsAny(w, "_=#@$%^&+\\") || strings.Contains(w, "::") || strings.Contains(w, "()") {
		return true
	}
	upper, lower := 0, 0
	for i, r := range w {
		switch {
		case unicode.IsDigit(r):
			return true
		case unicode.IsUpper(r):
			// camelCase и CamelCase с заглавной внутри слова
			if i > 0 && lower > 0 {
				return true
			}
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}
	// аббревиатуры
	return upper > 1 && lower == 0
}

// onlySymbols reports words made of emoji and vulgar fractions.
func onlySymbols(w string) bool {
	for _, r := range w {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
