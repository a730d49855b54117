package source

import (
	"testing"
)

func TestRangeAlgebra(t *testing.T) {
	a := Range{Start: 2, End: 6}
	b := Range{Start: 4, End: 9}

	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatal("ranges should overlap")
	}
	if got, ok := a.Intersect(b); !ok || got != (Range{Start: 4, End: 6}) {
		t.Fatalf("Intersect = %v,%v", got, ok)
	}
	if got := a.Cover(b); got != (Range{Start: 2, End: 9}) {
		t.Fatalf("Cover = %v", got)
	}
	if _, ok := a.Intersect(Range{Start: 6, End: 8}); ok {
		t.Fatal("adjacent ranges have no intersection")
	}
	if (Range{Start: 3, End: 3}).Overlaps(a) {
		t.Fatal("empty range must not overlap")
	}
	if !a.ContainsRange(Range{Start: 6, End: 6}) {
		t.Fatal("empty range at the end is contained")
	}
	if !a.Contains(5) || a.Contains(6) {
		t.Fatal("Contains must be half-open")
	}
	if got := a.Shift(-2); got != (Range{Start: 0, End: 4}) {
		t.Fatalf("Shift = %v", got)
	}
}

func TestMustRangePanicsOnNegativeLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	_ = MustRange(5, 4)
}

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 10, End: 20}, Span{File: 1, Start: 30, End: 40}, Span{File: 1, Start: 10, End: 40}},
		{"nested", Span{File: 1, Start: 10, End: 40}, Span{File: 1, Start: 15, End: 20}, Span{File: 1, Start: 10, End: 40}},
		{"other file ignored", Span{File: 1, Start: 10, End: 20}, Span{File: 2, Start: 0, End: 90}, Span{File: 1, Start: 10, End: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Fatalf("Cover = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlapsIgnoresEmpty(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"shared rune", Span{File: 1, Start: 2, End: 6}, Span{File: 1, Start: 5, End: 9}, true},
		{"adjacent", Span{File: 1, Start: 2, End: 6}, Span{File: 1, Start: 6, End: 9}, false},
		{"empty inside", Span{File: 1, Start: 3, End: 3}, Span{File: 1, Start: 2, End: 6}, false},
		{"both empty", Span{File: 1, Start: 4, End: 4}, Span{File: 1, Start: 4, End: 4}, false},
		{"other file", Span{File: 1, Start: 2, End: 6}, Span{File: 2, Start: 2, End: 6}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("Span.Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Fatalf("Span.Overlaps is not symmetric")
			}
			if tt.a.File != tt.b.File {
				return
			}
			ra, rb := Range{Start: int(tt.a.Start), End: int(tt.a.End)}, Range{Start: int(tt.b.Start), End: int(tt.b.End)}
			if got := ra.Overlaps(rb); got != tt.want {
				t.Fatalf("Range.Overlaps = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubRunes(t *testing.T) {
	s := "añb€c"
	tests := []struct {
		r    Range
		want string
	}{
		{Range{Start: 0, End: 2}, "añ"},
		{Range{Start: 1, End: 4}, "ñb€"},
		{Range{Start: 4, End: 5}, "c"},
		{Range{Start: 5, End: 5}, ""},
		{Range{Start: 3, End: 9}, "€c"},
	}
	for _, tt := range tests {
		if got := SubRunes(s, tt.r); got != tt.want {
			t.Errorf("SubRunes(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
	if got := ByteToRuneRange(s, 1, 3); got != (Range{Start: 1, End: 2}) {
		t.Errorf("ByteToRuneRange = %v", got)
	}
}
