package lexer

import (
	"fmt"

	"lector/internal/diag"
	"lector/internal/literal"
	"lector/internal/source"
)

// Lexer scans C-family source text and yields one literal per comment token.
// String, raw string and char literals are skipped so that comment markers
// inside them are not mistaken for comments.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	err    error
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий комментарий в порядке документа.
// После EOF или ошибки всегда возвращает false; ошибку отдаёт Err.
func (lx *Lexer) Next() (*literal.Literal, bool) {
	if lx.err != nil {
		return nil, false
	}
	for !lx.cursor.EOF() {
		b0, b1, _ := lx.cursor.Peek2()
		switch {
		case b0 == '/' && (b1 == '/' || b1 == '*'):
			lit, ok := lx.scanComment()
			if lx.err != nil {
				return nil, false
			}
			if ok {
				return lit, true
			}
		case b0 == '"':
			lx.skipQuoted('"')
		case b0 == '`':
			lx.skipBacktick()
		case b0 == '\'':
			lx.skipChar()
		case b0 == 'r' && (b1 == '"' || b1 == '#') && !lx.identBefore():
			if !lx.skipRawString() {
				lx.cursor.Bump()
			}
		default:
			lx.cursor.Bump()
		}
	}
	return nil, false
}

// Err returns the error that stopped the scan, if any.
func (lx *Lexer) Err() error {
	return lx.err
}

// Reset rewinds the lexer to the start of the file.
func (lx *Lexer) Reset() {
	lx.cursor = NewCursor(lx.file)
	lx.err = nil
}

// All collects every literal of the file.
func (lx *Lexer) All() ([]*literal.Literal, error) {
	lx.Reset()
	var out []*literal.Literal
	for {
		lit, ok := lx.Next()
		if !ok {
			break
		}
		out = append(out, lit)
	}
	return out, lx.Err()
}

// scanComment consumes one comment token. ok is false when the comment is
// filtered out by Options.
func (lx *Lexer) scanComment() (*literal.Literal, bool) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Bump() == '/' {
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
	} else {
		// "/* ... */" с вложенностью
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			if b0, b1, ok := lx.cursor.Peek2(); ok {
				if b0 == '/' && b1 == '*' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth++
					continue
				}
				if b0 == '*' && b1 == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					depth--
					continue
				}
			}
			lx.cursor.Bump()
		}
		if depth > 0 {
			sp := lx.cursor.SpanFrom(start)
			lx.fail(sp, "unterminated block comment")
			return nil, false
		}
	}

	sp := lx.cursor.SpanFrom(start)
	raw := lx.file.Content[start:lx.cursor.Off]
	v, ok := literal.Classify(string(raw))
	if !ok || !lx.opts.wants(v.IsDoc()) {
		return nil, false
	}
	lit, err := literal.New(lx.file, sp, v)
	if err != nil {
		lx.err = err
		diag.ReportError(lx.opts.Reporter, diag.IntMalformedLiteral, sp, err.Error()).Emit()
		return nil, false
	}
	return lit, true
}

func (lx *Lexer) fail(sp source.Span, reason string) {
	lx.err = &literal.MalformedLiteralError{
		Path:   lx.file.Path,
		Span:   sp,
		Pos:    lx.file.LineCol(sp.Start),
		Reason: reason,
	}
	diag.ReportError(lx.opts.Reporter, diag.IntMalformedLiteral, sp, fmt.Sprintf("malformed comment: %s", reason)).Emit()
}

// "..." и '...' с escape-последовательностями; строки в Rust и C++ бывают многострочными
func (lx *Lexer) skipQuoted(q byte) {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '\\':
			lx.cursor.Bump()
		case q:
			return
		}
	}
}

func (lx *Lexer) skipBacktick() {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '`' {
			return
		}
	}
}

// r"..." / r#"..."#; false if this was an identifier starting with r
func (lx *Lexer) skipRawString() bool {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // 'r'
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if !lx.cursor.Eat('"') {
		lx.cursor.Reset(start)
		return false
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			return true
		}
	}
	return true
}

// 'x', '\n', '\u{1F600}' — или время жизни 'a, которое пропускаем как обычный символ
func (lx *Lexer) skipChar() {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		lx.cursor.Bump()
		for i := 0; i < 10 && !lx.cursor.EOF(); i++ {
			switch lx.cursor.Bump() {
			case '\'':
				return
			case '\n':
				lx.cursor.Reset(start)
				lx.cursor.Bump()
				return
			}
		}
		lx.cursor.Reset(start)
		lx.cursor.Bump()
		return
	}
	// одна руна и закрывающая кавычка
	if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
		return
	}
	lx.bumpRune()
	if !lx.cursor.Eat('\'') {
		lx.cursor.Reset(start)
		lx.cursor.Bump()
	}
}
