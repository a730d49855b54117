package lexer

import (
	"unicode/utf8"
)

// bumpRune перемещает курсор на размер текущей руны
func (lx *Lexer) bumpRune() {
	if lx.cursor.EOF() {
		return
	}
	_, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	lx.cursor.Off += uint32(sz) // #nosec G115 -- rune size is at most 4
}

// identBefore reports whether the byte before the cursor continues an identifier,
// e.g. the r in `bar"` is not a raw string prefix.
func (lx *Lexer) identBefore() bool {
	if lx.cursor.Off == 0 {
		return false
	}
	b := lx.file.Content[lx.cursor.Off-1]
	return isIdentContinueByte(b) || b >= utf8.RuneSelf
}

func isIdentContinueByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
