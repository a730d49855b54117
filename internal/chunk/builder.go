package chunk

import (
	"strings"

	"lector/internal/literal"
	"lector/internal/markdown"
	"lector/internal/source"
)

// Build clusters literals, given in document order, into chunks with a
// single left-to-right scan. A new chunk starts when
//   - the variant changes,
//   - the literal does not start on the line after the previous one ends,
//   - code precedes the literal on its line,
//   - either literal is a block comment (a block is always its own chunk).
func Build(path string, lits []*literal.Literal) []*Chunk {
	var (
		out []*Chunk
		run []*literal.Literal
	)
	flush := func() {
		if len(run) > 0 {
			out = append(out, fromLiterals(path, run))
			run = nil
		}
	}
	for _, lit := range lits {
		if len(run) > 0 && !continues(run[len(run)-1], lit) {
			flush()
		}
		run = append(run, lit)
	}
	flush()
	return out
}

func continues(prev, next *literal.Literal) bool {
	switch {
	case prev.Variant.Family() != next.Variant.Family():
		return false
	case prev.Variant.IsBlock() || next.Variant.IsBlock():
		return false
	case next.Trailing:
		return false
	case next.Line != prev.EndLine()+1:
		return false
	}
	return true
}

func fromLiterals(path string, lits []*literal.Literal) *Chunk {
	var (
		text  strings.Builder
		frags []Fragment
		pos   int
	)
	for li, lit := range lits {
		if li > 0 {
			text.WriteString(Separator)
			pos++
		}
		text.WriteString(lit.Text)
		for _, lf := range lit.Fragments {
			frags = append(frags, Fragment{
				Range:        lf.Text.Shift(pos),
				File:         lf.File,
				Line:         lf.Line,
				Prefix:       lf.Prefix,
				Continuation: lf.Continuation,
				Literal:      li,
				Offset:       lf.Text.Start,
			})
		}
		pos += source.RuneLen(lit.Text)
	}
	return newChunk(path, lits[0].Span.File, lits[0].Variant, text.String(), frags, lits)
}

// FromMarkdown returns one chunk per prose block of a markdown file.
func FromMarkdown(f *source.File) []*Chunk {
	var out []*Chunk
	for _, b := range markdown.Blocks(f.Content) {
		var (
			texts []string
			frags []Fragment
			pos   int
		)
		cont := ""
		for i, ln := range b.Lines {
			span := source.Span{File: f.ID, Start: f.RuneOffset(ln.Start), End: f.RuneOffset(ln.End)}
			line := f.LineCol(span.Start).Line
			prefix := f.Slice(source.Span{File: f.ID, Start: f.LineRange(line).Start, End: span.Start})
			if i == 0 {
				cont = markdownContinuation(prefix)
			}
			t := string(f.Content[ln.Start:ln.End])
			n := source.RuneLen(t)
			frags = append(frags, Fragment{
				Range:        source.MustRange(pos, pos+n),
				File:         span,
				Line:         line,
				Prefix:       prefix,
				Continuation: cont,
				Literal:      -1,
				Offset:       pos,
			})
			texts = append(texts, t)
			pos += n + 1
		}
		c := newChunk(f.Path, f.ID, literal.Markdown, strings.Join(texts, Separator), frags, nil)
		c.Block = b.Kind
		out = append(out, c)
	}
	return out
}

// markdownContinuation keeps blockquote markers and turns list markers into
// indentation: "> - " becomes ">   ".
func markdownContinuation(prefix string) string {
	return strings.Map(func(r rune) rune {
		if r == '>' || r == ' ' || r == '\t' {
			return r
		}
		return ' '
	}, prefix)
}
