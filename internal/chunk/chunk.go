// Package chunk groups comment literals and markdown blocks into chunks:
// one logical text body with its own rune coordinates and an exact mapping
// of every content rune back to the file.
package chunk

import (
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"lector/internal/literal"
	"lector/internal/markdown"
	"lector/internal/source"
)

// Fragment maps one physical line of chunk text to the file.
type Fragment struct {
	Range  source.Range // chunk-local, runes, without the separator
	File   source.Span
	Line   uint32
	Prefix string
	// Continuation prefixes lines inserted after this one.
	Continuation string
	// Literal indexes Chunk.Literals, -1 for markdown chunks.
	Literal int
	// Offset is the rune offset of Range.Start inside the literal text.
	Offset int
}

// Separator joins the texts of consecutive fragments.
const Separator = "\n"

// Chunk is an immutable text body. Code chunks own their literals; a
// literal belongs to exactly one chunk.
type Chunk struct {
	Path    string
	File    source.FileID
	Variant literal.Variant
	// Block is the markdown block kind of markdown chunks.
	Block     markdown.BlockKind
	Fragments []Fragment
	Literals  []*literal.Literal
	// Hidden are the ranges checkers must not see (inline code, link targets).
	Hidden []source.Range

	text  string
	runes int
	plain string
}

func newChunk(path string, file source.FileID, v literal.Variant, text string, frags []Fragment, lits []*literal.Literal) *Chunk {
	c := &Chunk{
		Path:      path,
		File:      file,
		Variant:   v,
		Fragments: frags,
		Literals:  lits,
		text:      text,
		runes:     source.RuneLen(text),
	}
	c.Hidden = markdown.Hidden(text)
	c.plain = markdown.Erase(text, c.Hidden)
	return c
}

// Text returns the chunk text: fragment contents joined by Separator.
func (c *Chunk) Text() string { return c.text }

// Plain returns the text with hidden ranges blanked out. Offsets match Text.
func (c *Chunk) Plain() string { return c.plain }

// Len returns the text length in runes.
func (c *Chunk) Len() int { return c.runes }

// Lines returns the number of physical lines.
func (c *Chunk) Lines() int { return len(c.Fragments) }

// Empty reports whether the chunk has no text.
func (c *Chunk) Empty() bool { return strings.TrimSpace(c.text) == "" }

// Sub returns the text covered by r.
func (c *Chunk) Sub(r source.Range) string { return source.SubRunes(c.text, r) }

// Hash is the cache key of the chunk: variant and text, nothing positional.
func (c *Chunk) Hash() [32]byte {
	buf := make([]byte, 0, len(c.text)+1)
	buf = append(buf, byte(c.Variant))
	buf = append(buf, c.text...)
	return blake3.Sum256(buf)
}

// StartLine returns the first physical line of the chunk.
func (c *Chunk) StartLine() uint32 { return c.Fragments[0].Line }

// EndLine returns the last physical line of the chunk.
func (c *Chunk) EndLine() uint32 { return c.Fragments[len(c.Fragments)-1].Line }

// Display renders r with a marker for debugging output.
func (c *Chunk) Display(r source.Range) string {
	return fmt.Sprintf("%s:%d %s «%s»", c.Path, c.StartLine(), r, strings.ReplaceAll(c.Sub(r), "\n", "⏎"))
}

func (c *Chunk) String() string {
	return fmt.Sprintf("%s:%d-%d %s (%d lines)", c.Path, c.StartLine(), c.EndLine(), c.Variant, c.Lines())
}
