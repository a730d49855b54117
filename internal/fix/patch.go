package fix

import (
	"fmt"

	"lector/internal/source"
)

// Kind is the operation of a patch.
type Kind uint8

const (
	Replace Kind = iota
	InsertBefore
	Delete
)

func (k Kind) String() string {
	switch k {
	case Replace:
		return "replace"
	case InsertBefore:
		return "insert"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Patch is a file-local edit. Span is in runes of the normalized file content
// the patch was computed against; Old is the text the span covered then.
type Patch struct {
	Kind Kind
	Path string
	Line uint32 // 1-based line the edit starts on
	Span source.Span
	Text string
	Old  string
}

func (p Patch) String() string {
	switch p.Kind {
	case InsertBefore:
		return fmt.Sprintf("%s:%d: insert %q", p.Path, p.Line, p.Text)
	case Delete:
		return fmt.Sprintf("%s:%d: delete %q", p.Path, p.Line, p.Old)
	default:
		return fmt.Sprintf("%s:%d: replace %q with %q", p.Path, p.Line, p.Old, p.Text)
	}
}

// ReplaceSpan replaces the text covered by span with text.
func ReplaceSpan(f *source.File, span source.Span, text string) Patch {
	return Patch{
		Kind: Replace,
		Path: f.Path,
		Line: f.LineCol(span.Start).Line,
		Span: span,
		Text: text,
		Old:  f.Slice(span),
	}
}

// InsertLine inserts one line before line n. n may be one past the last
// line; when the file does not end with a newline the text is appended
// after a fresh line break instead.
func InsertLine(f *source.File, n uint32, line string) Patch {
	at := f.LineRange(n).Start
	text := line + "\n"
	if n > 1 && !f.HasLineBreak(n-1) {
		at = f.RuneCount()
		text = "\n" + line
	}
	return Patch{
		Kind: InsertBefore,
		Path: f.Path,
		Line: n,
		Span: source.Span{File: f.ID, Start: at, End: at},
		Text: text,
	}
}

// DeleteLine removes line n with its line break. With tailless set the
// break before the line is removed instead, which is the only choice for a
// last line without a newline.
func DeleteLine(f *source.File, n uint32, tailless bool) Patch {
	r := f.LineRange(n)
	span := source.Span{File: f.ID, Start: r.Start, End: r.End + 1}
	if tailless && n > 1 {
		span = source.Span{File: f.ID, Start: f.LineRange(n - 1).End, End: r.End}
	}
	return Patch{
		Kind: Delete,
		Path: f.Path,
		Line: n,
		Span: span,
		Old:  f.Slice(span),
	}
}
