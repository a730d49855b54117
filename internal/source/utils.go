package source

import (
	"bytes"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a BOM and converts CRLF to LF, reporting what it did in flags.
func Normalize(raw []byte) ([]byte, FileFlags) {
	content, hadBOM := CutBOM(raw)
	content, hadCRLF := normalizeCRLF(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// WithBOM returns content prefixed with a UTF-8 BOM.
func WithBOM(content []byte) []byte {
	return append(slices.Clone(bom), content...)
}

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и флаг: были ли замены (true, если хотя бы одна).
func normalizeCRLF(content []byte) ([]byte, bool) {
	// Быстрый путь: если нет \r, возвращаем как есть.
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

// CutBOM strips a leading UTF-8 BOM and reports whether there was one.
func CutBOM(content []byte) ([]byte, bool) {
	if bytes.HasPrefix(content, bom) {
		return content[len(bom):], true
	}
	return content, false
}

// buildIndexes returns the byte offset of every rune (plus a sentinel for the end)
// and the rune offsets where lines start.
func buildIndexes(content []byte) (runeIdx, lineIdx []uint32) {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file too large: %w", err))
	}
	runeIdx = make([]uint32, 0, len(content)+1)
	lineIdx = []uint32{0}
	for i := 0; i < len(content); {
		_, size := utf8.DecodeRune(content[i:])
		runeIdx = append(runeIdx, uint32(i)) // #nosec G115 -- checked above
		if content[i] == '\n' {
			lineIdx = append(lineIdx, uint32(len(runeIdx))) // #nosec G115 -- checked above
		}
		i += size
	}
	runeIdx = append(runeIdx, uint32(len(content))) // #nosec G115 -- checked above
	return runeIdx, lineIdx
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: первая строка, начинающаяся после off
	i := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] > off })
	line := max(i-1, 0)
	return LineCol{Line: uint32(line + 1), Col: off - lineIdx[line] + 1} // #nosec G115 -- bounded by lineIdx
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// SubRunes returns the part of s covered by a rune range.
// The range is clamped to the string.
func SubRunes(s string, r Range) string {
	start := RuneToByte(s, r.Start)
	end := RuneToByte(s, r.End)
	if end < start {
		return ""
	}
	return s[start:end]
}

// ByteToRuneRange converts a byte range in s into a rune range.
func ByteToRuneRange(s string, start, end int) Range {
	return Range{
		Start: utf8.RuneCountInString(s[:start]),
		End:   utf8.RuneCountInString(s[:end]),
	}
}

// RuneToByte converts a rune offset in s into a byte offset, clamping to len(s).
func RuneToByte(s string, off int) int {
	n := 0
	for i := range s {
		if n == off {
			return i
		}
		n++
	}
	return len(s)
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the absolute form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}

// RelativePath returns path relative to baseDir.
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return "", err
	}
	// файл вне базы: относительный путь с ../ только путает
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absPath), nil
	}
	return filepath.ToSlash(rel), nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}
