package fix

import (
	"strings"

	"lector/internal/chunk"
	"lector/internal/source"
)

// BuildPatches turns the replacement of chunk range r into file patches.
//
// A range inside one physical line with a single-line replacement becomes a
// plain substring replace. Anything else rewrites the affected lines: the
// first line keeps its own prefix, every following line gets the
// continuation prefix of the first affected line, surplus lines are deleted
// and missing ones inserted. An empty result means the text would not
// change.
func BuildPatches(f *source.File, c *chunk.Chunk, r source.Range, replacement string) ([]Patch, error) {
	spans, err := chunk.Resolve(c, r)
	if err != nil {
		return nil, err
	}
	tail := spans[len(spans)-1]
	if len(spans) == 1 && !tail.Separator && !strings.Contains(replacement, chunk.Separator) {
		p := ReplaceSpan(f, tail.Span, replacement)
		if p.Old == p.Text {
			return nil, nil
		}
		return []Patch{p}, nil
	}

	first, last := spans[0].Fragment, tail.Fragment
	if tail.Separator {
		last++ // перенос строки склеивает со следующей строкой
	}
	frags := c.Fragments[first : last+1]
	for i := 1; i < len(frags); i++ {
		if frags[i].Line != frags[i-1].Line+1 {
			return nil, &chunk.SpanError{Range: r, Reason: "affected lines are not adjacent"}
		}
	}
	head := c.Sub(source.MustRange(frags[0].Range.Start, r.Start))
	rest := c.Sub(source.MustRange(r.End, frags[len(frags)-1].Range.End))
	lines := strings.Split(head+replacement+rest, chunk.Separator)
	return rewriteLines(f, frags, lines), nil
}

func rewriteLines(f *source.File, frags []chunk.Fragment, lines []string) []Patch {
	var (
		out   []Patch
		cont  = frags[0].Continuation
		nOld  = len(frags)
		nNew  = len(lines)
		final = frags[nOld-1]
		// "*/" or code after the content of the last line must survive
		closed   = strings.TrimSpace(f.Slice(source.Span{File: f.ID, Start: final.File.End, End: f.LineRange(final.Line).End})) != ""
		tailless = !f.HasLineBreak(final.Line)
	)
	render := func(i int) string {
		prefix := cont
		if i == 0 {
			prefix = frags[0].Prefix
		}
		// no trailing blanks, also for empty lines
		return strings.TrimRight(prefix+lines[i], " \t")
	}
	replace := func(from chunk.Fragment, to source.Span, text string) {
		span := source.Span{File: f.ID, Start: f.LineRange(from.Line).Start, End: to.End}
		if p, ok := minimalReplace(f, span, text); ok {
			out = append(out, p)
		}
	}

	kept := min(nOld, nNew)
	for i := 0; i < kept-1; i++ {
		replace(frags[i], frags[i].File, render(i))
	}

	switch {
	case nNew >= nOld && closed:
		rendered := make([]string, 0, nNew-nOld+1)
		for i := nOld - 1; i < nNew; i++ {
			rendered = append(rendered, render(i))
		}
		replace(final, final.File, strings.Join(rendered, "\n"))
	case nNew >= nOld:
		replace(final, final.File, render(nOld-1))
		for i := nOld; i < nNew; i++ {
			out = append(out, InsertLine(f, final.Line+1, render(i)))
		}
	case closed:
		// убираем строки между, чтобы сохранить закрывающий маркер
		replace(frags[nNew-1], final.File, render(nNew-1))
	default:
		replace(frags[nNew-1], frags[nNew-1].File, render(nNew-1))
		for _, fr := range frags[nNew:] {
			out = append(out, DeleteLine(f, fr.Line, tailless))
		}
	}
	return out
}

// minimalReplace shrinks span by the prefix and suffix old and new text
// share. It reports false when nothing changes.
func minimalReplace(f *source.File, span source.Span, text string) (Patch, bool) {
	old, nw := []rune(f.Slice(span)), []rune(text)
	n := 0
	for n < len(old) && n < len(nw) && old[n] == nw[n] {
		n++
	}
	if n == len(old) && n == len(nw) {
		return Patch{}, false
	}
	m := 0
	for m < len(old)-n && m < len(nw)-n && old[len(old)-1-m] == nw[len(nw)-1-m] {
		m++
	}
	span.Start += uint32(n) // #nosec G115 -- bounded by span length
	span.End -= uint32(m)   // #nosec G115 -- bounded by span length
	return ReplaceSpan(f, span, string(nw[n:len(nw)-m])), true
}
