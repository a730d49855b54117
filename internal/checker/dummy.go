package checker

import (
	"context"
	"fmt"

	"lector/internal/chunk"
)

// Dummy flags every word. It exists to exercise the pipeline end to end.
type Dummy struct{}

func (Dummy) Check(ctx context.Context, c *chunk.Chunk) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	toks := tokenize(c.Plain())
	out := make([]Suggestion, 0, len(toks))
	for i, tok := range toks {
		out = append(out, Suggestion{
			Range:        tok.Range,
			Message:      "dummy",
			Replacements: []string{fmt.Sprintf("replacement_%d", i)},
			Detector:     KindDummy,
		})
	}
	return out, nil
}
