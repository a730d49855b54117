package literal

import (
	"errors"
	"fmt"
	"strings"

	"lector/internal/source"
)

// ErrMalformedLiteral marks comment tokens that cannot be trimmed, e.g. an
// unterminated block comment. The file containing one is skipped.
var ErrMalformedLiteral = errors.New("malformed literal")

// MalformedLiteralError carries the location of a malformed comment.
type MalformedLiteralError struct {
	Path   string
	Span   source.Span
	Pos    source.LineCol
	Reason string
}

func (e *MalformedLiteralError) Error() string {
	return fmt.Sprintf("%s:%d:%d: malformed comment: %s", e.Path, e.Pos.Line, e.Pos.Col, e.Reason)
}

func (e *MalformedLiteralError) Unwrap() error { return ErrMalformedLiteral }

// Fragment is one physical line of trimmed literal content.
type Fragment struct {
	Text   source.Range // literal-local, runes
	File   source.Span  // the same content in the file
	Line   uint32       // 1-based
	Prefix string       // raw line text before the content: indentation, marker, asterisks
	// Continuation is the prefix for new lines emitted after this one.
	Continuation string
}

// Literal is one comment token. It is never modified after New returns.
type Literal struct {
	Variant Variant
	Raw     string
	Span    source.Span
	// Text is the content with markers, closers, continuation asterisks
	// and trailing whitespace removed; physical lines are joined by "\n".
	Text string
	// Delta is the rune distance from Span.Start to the first content rune.
	Delta int
	// Indent is the whitespace before the token on its first line.
	Indent string
	// Trailing is set when code precedes the comment on its first line.
	Trailing bool
	// Line is the 1-based line the raw token starts on.
	Line      uint32
	Fragments []Fragment
}

// EndLine returns the last physical line of the raw token.
func (l *Literal) EndLine() uint32 {
	return l.Line + uint32(strings.Count(l.Raw, "\n")) // #nosec G115 -- bounded by file size
}

// Empty reports whether the literal carries no text.
func (l *Literal) Empty() bool { return l.Text == "" }

// New trims the comment token at span of f.
func New(f *source.File, span source.Span, v Variant) (*Literal, error) {
	raw := f.Slice(span)
	fail := func(reason string) (*Literal, error) {
		return nil, &MalformedLiteralError{Path: f.Path, Span: span, Pos: f.LineCol(span.Start), Reason: reason}
	}
	marker := v.Marker()
	if marker == "" || !strings.HasPrefix(raw, marker) {
		return fail(fmt.Sprintf("%s comment must start with %q", v, marker))
	}
	if v.IsBlock() && (len(raw) < len(marker)+len(v.Closer()) || !strings.HasSuffix(raw, v.Closer())) {
		return fail("unterminated block comment")
	}
	if !v.IsBlock() && strings.Contains(raw, "\n") {
		return fail("line comment spans several lines")
	}

	first := f.LineCol(span.Start)
	lineStart := f.LineRange(first.Line).Start
	before := f.Slice(source.Span{File: f.ID, Start: lineStart, End: span.Start})
	lit := &Literal{
		Variant:  v,
		Raw:      raw,
		Span:     span,
		Indent:   leadingSpace(before),
		Trailing: strings.TrimSpace(before) != "",
		Line:     first.Line,
	}

	lines := strings.Split(raw, "\n")
	frags := make([]Fragment, 0, len(lines))
	texts := make([]string, 0, len(lines))
	star := false
	off := span.Start // начало текущей строки в файле
	for i, ln := range lines {
		runes := []rune(ln)
		cs, ce := 0, len(runes)
		if i == 0 {
			cs = len([]rune(marker))
			if cs < ce && runes[cs] == ' ' {
				cs++
			}
		} else {
			for cs < ce && isBlank(runes[cs]) {
				cs++
			}
			closer := i == len(lines)-1 && cs+2 == ce
			if v.IsBlock() && cs < ce && runes[cs] == '*' && !closer {
				star = true
				cs++
				if cs < ce && runes[cs] == ' ' {
					cs++
				}
			}
		}
		if v.IsBlock() && i == len(lines)-1 {
			ce -= len(v.Closer())
		}
		ce = max(ce, cs)
		for ce > cs && isBlank(runes[ce-1]) {
			ce--
		}

		lineNo := first.Line + uint32(i) // #nosec G115 -- bounded by file size
		start := off + uint32(cs)        // #nosec G115 -- bounded by line length
		prefixStart := f.LineRange(lineNo).Start
		frags = append(frags, Fragment{
			File:   source.Span{File: f.ID, Start: start, End: off + uint32(ce)}, // #nosec G115 -- bounded by line length
			Line:   lineNo,
			Prefix: f.Slice(source.Span{File: f.ID, Start: prefixStart, End: start}),
		})
		texts = append(texts, string(runes[cs:ce]))
		off += uint32(len(runes)) + 1 // #nosec G115 -- bounded by line length
	}

	// пустые первая/последняя строки блока ("/**" и " */") не несут текста
	if v.IsBlock() {
		for len(frags) > 1 && texts[0] == "" {
			frags, texts = frags[1:], texts[1:]
		}
		for len(frags) > 1 && texts[len(texts)-1] == "" {
			frags, texts = frags[:len(frags)-1], texts[:len(texts)-1]
		}
	}

	cont := lit.continuation(star, lines)
	pos := 0
	for i := range frags {
		n := len([]rune(texts[i]))
		frags[i].Text = source.MustRange(pos, pos+n)
		frags[i].Continuation = cont
		pos += n + 1
	}
	lit.Fragments = frags
	lit.Text = strings.Join(texts, "\n")
	lit.Delta = int(frags[0].File.Start - span.Start)
	return lit, nil
}

func (l *Literal) continuation(star bool, lines []string) string {
	switch {
	case !l.Variant.IsBlock():
		return l.Indent + l.Variant.LinePrefix()
	case star:
		return l.Indent + " * "
	case len(lines) > 2:
		// берём отступ тела блока, как его написал автор
		return leadingSpace(lines[1])
	}
	return l.Indent + strings.Repeat(" ", len(l.Variant.Marker())+1)
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}
