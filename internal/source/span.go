package source

import (
	"fmt"
)

// Span is a half-open range of rune offsets inside one file.
type Span struct {
	File  FileID
	Start uint32 // в рунах включительно
	End   uint32 // в рунах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both spans.
// Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the spans share at least one rune.
// Empty spans never overlap anything.
func (s Span) Overlaps(other Span) bool {
	if s.File != other.File || s.Start == s.End || other.Start == other.End {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

// Range is a half-open range of rune offsets local to some text,
// e.g. a chunk or a literal. It never refers to bytes.
type Range struct {
	Start int
	End   int
}

// MustRange builds a range and panics on a negative length.
// A negative range means offset arithmetic went wrong somewhere upstream,
// continuing would corrupt files.
func MustRange(start, end int) Range {
	if start < 0 || end < start {
		panic(fmt.Errorf("invalid range %d..%d", start, end))
	}
	return Range{Start: start, End: end}
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) Empty() bool {
	return r.Start == r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Valid reports whether the range is well formed.
func (r Range) Valid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

// Contains reports whether off lies inside the range.
func (r Range) Contains(off int) bool {
	return r.Start <= off && off < r.End
}

// ContainsRange reports whether other lies entirely inside r.
// An empty other is contained if its position is within [Start, End].
func (r Range) ContainsRange(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Overlaps reports whether two ranges share at least one offset.
// Empty ranges never overlap anything.
func (r Range) Overlaps(other Range) bool {
	return !r.Empty() && !other.Empty() && r.Start < other.End && other.Start < r.End
}

// Intersect returns the common part of both ranges and whether it is non-empty.
func (r Range) Intersect(other Range) (Range, bool) {
	start := max(r.Start, other.Start)
	end := min(r.End, other.End)
	if end <= start {
		return Range{Start: start, End: start}, false
	}
	return Range{Start: start, End: end}, true
}

// Cover returns the smallest range containing both ranges.
func (r Range) Cover(other Range) Range {
	return Range{Start: min(r.Start, other.Start), End: max(r.End, other.End)}
}

// Shift moves the range by delta, which may be negative.
func (r Range) Shift(delta int) Range {
	return MustRange(r.Start+delta, r.End+delta)
}
