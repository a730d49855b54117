package reflow

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"lector/internal/source"
)

type unit struct {
	text string
	// hard is set for a markdown hard break: the line ends after the unit.
	hard bool
}

// Wrap fills the whitespace separated tokens of text greedily into lines no
// wider than width(line). Tokens joined by an unbreakable range form one
// unit. A unit wider than the line gets a line of its own.
func Wrap(text string, unbreakable []source.Range, width func(line int) int) []string {
	var (
		lines []string
		cur   strings.Builder
		curW  int
	)
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW = 0
	}
	for _, u := range units(text, unbreakable) {
		w := runewidth.StringWidth(u.text)
		if curW > 0 && curW+1+w > max(width(len(lines)), 1) {
			flush()
		}
		if curW > 0 {
			cur.WriteByte(' ')
			curW++
		}
		cur.WriteString(u.text)
		curW += w
		if u.hard {
			flush()
		}
	}
	if curW > 0 {
		flush()
	}
	return lines
}

func units(text string, unbreakable []source.Range) []unit {
	runes := []rune(text)
	type token struct {
		start, end int
		hard       bool
	}
	var tokens []token
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		j := i
		for j < len(runes) && !unicode.IsSpace(runes[j]) {
			j++
		}
		// "\" в конце строки - жёсткий перенос
		hard := runes[j-1] == '\\' && j < len(runes) && runes[j] == '\n'
		tokens = append(tokens, token{start: i, end: j, hard: hard})
		i = j
	}

	var out []unit
	for k := 0; k < len(tokens); {
		start, end := tokens[k].start, tokens[k].end
		m := k + 1
		for m < len(tokens) && bridged(unbreakable, end, tokens[m].start) {
			end = tokens[m].end
			m++
		}
		// внутри неразрывного диапазона пробелы сохраняем как есть
		out = append(out, unit{
			text: strings.ReplaceAll(string(runes[start:end]), "\n", " "),
			hard: tokens[m-1].hard,
		})
		k = m
	}
	return out
}

// bridged reports whether an unbreakable range covers the gap a..b.
func bridged(unbreakable []source.Range, a, b int) bool {
	for _, r := range unbreakable {
		if r.Start < a && b < r.End {
			return true
		}
	}
	return false
}
