// Package testkit checks structural invariants of extracted chunks. Tests
// and fuzz harnesses run it after extraction.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"lector/internal/chunk"
	"lector/internal/source"
)

// CheckChunk verifies one chunk against its file:
//  1. the chunk belongs to f and has at least one fragment
//  2. fragment ranges ascend, lie inside the text and do not overlap
//  3. fragment file spans ascend and lie inside the file
//  4. every fragment's text equals the file text under its span
func CheckChunk(f *source.File, c *chunk.Chunk) error {
	if f == nil || c == nil {
		return fmt.Errorf("nil file or chunk")
	}
	if c.File != f.ID {
		return fmt.Errorf("%s: chunk points to file %d, want %d", c, c.File, f.ID)
	}
	if len(c.Fragments) == 0 {
		return fmt.Errorf("%s: chunk without fragments", c.Path)
	}
	text := source.Range{Start: 0, End: c.Len()}
	size := f.RuneCount()
	var prev *chunk.Fragment
	for i := range c.Fragments {
		fr := &c.Fragments[i]
		if !fr.Range.Valid() || !text.ContainsRange(fr.Range) {
			return fmt.Errorf("%s: fragment %d range %v outside text of %d runes", c, i, fr.Range, c.Len())
		}
		if fr.File.File != f.ID || fr.File.End < fr.File.Start || fr.File.End > size {
			return fmt.Errorf("%s: fragment %d span %v outside file", c, i, fr.File)
		}
		n, err := safecast.Conv[uint32](fr.Range.Len())
		if err != nil {
			return fmt.Errorf("fragment length overflow: %w", err)
		}
		if n != fr.File.Len() {
			return fmt.Errorf("%s: fragment %d covers %d runes of text but %d of file", c, i, n, fr.File.Len())
		}
		if got, want := c.Sub(fr.Range), f.Slice(fr.File); got != want {
			return fmt.Errorf("%s: fragment %d text %q differs from file %q", c, i, got, want)
		}
		if prev != nil {
			if fr.Range.Start < prev.Range.End {
				return fmt.Errorf("%s: fragment %d range %v overlaps %v", c, i, fr.Range, prev.Range)
			}
			if fr.File.Start < prev.File.End {
				return fmt.Errorf("%s: fragment %d span %v overlaps %v", c, i, fr.File, prev.File)
			}
		}
		prev = fr
	}
	return nil
}

// CheckChunks runs CheckChunk on every chunk.
func CheckChunks(f *source.File, chunks []*chunk.Chunk) error {
	for _, c := range chunks {
		if err := CheckChunk(f, c); err != nil {
			return err
		}
	}
	return nil
}
