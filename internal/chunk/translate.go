package chunk

import (
	"errors"
	"fmt"

	"lector/internal/source"
)

// ErrSpanResolution marks chunk ranges that do not map onto file content.
// The suggestion carrying such a range is dropped.
var ErrSpanResolution = errors.New("span resolution failed")

// SpanError describes why a range could not be resolved.
type SpanError struct {
	Range  source.Range
	Reason string
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("range %s: %s", e.Range, e.Reason)
}

func (e *SpanError) Unwrap() error { return ErrSpanResolution }

// FileSpan is one contiguous piece of a resolved chunk range.
type FileSpan struct {
	Span source.Span
	// Range is the chunk-local part that produced Span, separator included.
	Range source.Range
	// Fragment indexes Chunk.Fragments.
	Fragment int
	// Literal indexes Chunk.Literals, -1 for markdown.
	Literal int
	// Offset is the rune offset of Span.Start inside the literal text.
	Offset int
	// Separator is set when the range also covers the line break after the
	// fragment. The break has no width in the file: it is attributed to
	// this, the preceding, fragment.
	Separator bool
}

// Resolve maps a chunk range to file spans, one per touched fragment, in order.
func Resolve(c *Chunk, r source.Range) ([]FileSpan, error) {
	switch {
	case !r.Valid() || r.End > c.Len():
		return nil, &SpanError{Range: r, Reason: fmt.Sprintf("outside of chunk text 0..%d", c.Len())}
	case r.Empty():
		return nil, &SpanError{Range: r, Reason: "empty range"}
	}

	var out []FileSpan
	content := false
	last := len(c.Fragments) - 1
	for i, fr := range c.Fragments {
		ext := fr.Range
		if i < last {
			ext.End++ // разделитель принадлежит предыдущему фрагменту
		}
		part, ok := r.Intersect(ext)
		if !ok {
			if fr.Range.Start >= r.End {
				break
			}
			continue
		}
		cs := min(part.Start, fr.Range.End) - fr.Range.Start
		ce := min(part.End, fr.Range.End) - fr.Range.Start
		if ce > cs {
			content = true
		}
		out = append(out, FileSpan{
			Span: source.Span{
				File:  fr.File.File,
				Start: fr.File.Start + uint32(cs), // #nosec G115 -- bounded by fragment length
				End:   fr.File.Start + uint32(ce), // #nosec G115 -- bounded by fragment length
			},
			Range:     part,
			Fragment:  i,
			Literal:   fr.Literal,
			Offset:    fr.Offset + cs,
			Separator: part.End > fr.Range.End,
		})
	}
	if !content {
		return nil, &SpanError{Range: r, Reason: "range covers only line breaks"}
	}
	return out, nil
}

// FindCovering is the inverse of Resolve: the smallest chunk range whose
// resolution yields spans. Spans are located by file position, so they may
// come from an earlier extraction of unchanged text.
func FindCovering(c *Chunk, spans []FileSpan) (source.Range, error) {
	if len(spans) == 0 {
		return source.Range{}, &SpanError{Reason: "no spans"}
	}
	var (
		out   source.Range
		found bool
	)
	for _, s := range spans {
		idx := c.fragmentAt(s.Span)
		if idx < 0 {
			return source.Range{}, &SpanError{Reason: fmt.Sprintf("file span %s is not chunk content", s.Span)}
		}
		fr := c.Fragments[idx]
		start := fr.Range.Start + int(s.Span.Start-fr.File.Start)
		end := fr.Range.Start + int(s.Span.End-fr.File.Start)
		if s.Separator {
			if idx == len(c.Fragments)-1 || s.Span.End != fr.File.End {
				return source.Range{}, &SpanError{Reason: fmt.Sprintf("no line break after %s", s.Span)}
			}
			end++
		}
		r := source.MustRange(start, end)
		if !found {
			out, found = r, true
			continue
		}
		out = out.Cover(r)
	}
	return out, nil
}

func (c *Chunk) fragmentAt(sp source.Span) int {
	for i, fr := range c.Fragments {
		if fr.File.File == sp.File && fr.File.Start <= sp.Start && sp.End <= fr.File.End {
			return i
		}
	}
	return -1
}

// Spans returns the plain file spans of a resolution.
func Spans(fs []FileSpan) []source.Span {
	out := make([]source.Span, len(fs))
	for i, s := range fs {
		out[i] = s.Span
	}
	return out
}

// Primary returns the span covering all non-empty pieces, for reporting.
func Primary(fs []FileSpan) source.Span {
	var out source.Span
	found := false
	for _, s := range fs {
		if s.Span.Empty() {
			continue
		}
		if !found {
			out, found = s.Span, true
			continue
		}
		out = out.Cover(s.Span)
	}
	return out
}
