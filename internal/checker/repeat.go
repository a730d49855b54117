package checker

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"lector/internal/chunk"
	"lector/internal/source"
)

// Repeat flags a word that directly repeats the previous one ("the the").
type Repeat struct{}

// Check suggests removing the second occurrence with the whitespace before it.
func (Repeat) Check(ctx context.Context, c *chunk.Chunk) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// промежуток проверяем по исходному тексту: скрытая разметка там не пробел
	runes := []rune(c.Text())
	toks := tokenize(c.Plain())
	var out []Suggestion
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		if !strings.ContainsFunc(cur.Text, unicode.IsLetter) || fold(prev.Text) != fold(cur.Text) {
			continue
		}
		if strings.TrimSpace(string(runes[prev.Range.End:cur.Range.Start])) != "" {
			continue
		}
		out = append(out, Suggestion{
			Range:        source.Range{Start: prev.Range.End, End: cur.Range.End},
			Message:      fmt.Sprintf("word %q is repeated", cur.Text),
			Replacements: []string{""},
			Detector:     KindRepeat,
		})
	}
	return out, nil
}
