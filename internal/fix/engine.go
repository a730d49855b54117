package fix

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"lector/internal/fsource"
	"lector/internal/source"
)

var (
	// ErrStalePatch is returned when the file no longer contains what a
	// patch expects. None of the kit's patches are applied then.
	ErrStalePatch = errors.New("stale patch")
	// ErrPatchConflict is returned by Kit.Add for overlapping edits.
	ErrPatchConflict = errors.New("patch conflicts with an accepted patch")
)

// StaleError describes the first patch that did not match.
type StaleError struct {
	Patch Patch
	Found string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("%s:%d: expected %q, found %q", e.Patch.Path, e.Patch.Line, e.Patch.Old, e.Found)
}

func (e *StaleError) Unwrap() error { return ErrStalePatch }

// ConflictError names the accepted patch a new one overlaps.
type ConflictError struct {
	Patch, With Patch
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflicts with %s", e.Patch, e.With)
}

func (e *ConflictError) Unwrap() error { return ErrPatchConflict }

type entry struct {
	patch Patch
	seq   int
}

// Kit is the batch of patches for one file. Patches are applied in
// descending offset order, so no applied patch moves one still pending.
type Kit struct {
	Path    string
	entries []entry
	seq     int
	groups  int
}

// NewKit returns an empty kit for path.
func NewKit(path string) *Kit {
	return &Kit{Path: path}
}

// Add accepts the patches of one correction together or not at all. A
// group that overlaps any accepted patch is rejected with ErrPatchConflict.
func (k *Kit) Add(group ...Patch) error {
	for _, p := range group {
		if k.Path != "" && p.Path != k.Path {
			return fmt.Errorf("fix: patch for %s added to kit of %s", p.Path, k.Path)
		}
		for _, e := range k.entries {
			if spansConflict(e.patch.Span, p.Span) {
				return &ConflictError{Patch: p, With: e.patch}
			}
		}
	}
	for _, p := range group {
		k.entries = append(k.entries, entry{patch: p, seq: k.seq})
		k.seq++
	}
	if len(group) > 0 {
		k.groups++
	}
	return nil
}

// Len returns the number of accepted patches.
func (k *Kit) Len() int { return len(k.entries) }

// Groups returns the number of accepted corrections.
func (k *Kit) Groups() int { return k.groups }

// Empty reports whether the kit holds no patches.
func (k *Kit) Empty() bool { return len(k.entries) == 0 }

// Patches returns the accepted patches in application order: descending
// start, then descending end. Insertions at one point keep the order they
// were added in.
func (k *Kit) Patches() []Patch {
	sorted := append([]entry(nil), k.entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].patch.Span, sorted[j].patch.Span
		if a.Start != b.Start {
			return a.Start > b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return sorted[i].seq > sorted[j].seq
	})
	out := make([]Patch, len(sorted))
	for i, e := range sorted {
		out[i] = e.patch
	}
	return out
}

// Apply renders content with every patch applied. content must be the
// normalized text the patches were computed against; any mismatch fails
// the whole kit with a StaleError.
func (k *Kit) Apply(content string) (string, error) {
	runes := []rune(content)
	ordered := k.Patches()
	for _, p := range ordered {
		start, end := int(p.Span.Start), int(p.Span.End)
		if end > len(runes) || start > end {
			return "", &StaleError{Patch: p, Found: "<out of range>"}
		}
		if found := string(runes[start:end]); found != p.Old {
			return "", &StaleError{Patch: p, Found: found}
		}
	}
	for _, p := range ordered {
		start, end := int(p.Span.Start), int(p.Span.End)
		tail := runes[end:]
		next := make([]rune, 0, start+len(p.Text)+len(tail))
		next = append(next, runes[:start]...)
		next = append(next, []rune(p.Text)...)
		runes = append(next, tail...)
	}
	return string(runes), nil
}

// WriteBack reads path from src, applies the kit and writes the result
// atomically. The BOM and every line break the kit does not touch are
// written back byte for byte, so files with mixed endings stay mixed.
func WriteBack(src fsource.FileSource, path string, kit *Kit) error {
	if kit.Empty() {
		return nil
	}
	raw, err := src.Read(path)
	if err != nil {
		return err
	}
	body, hadBOM := source.CutBOM(raw)
	out, err := kit.applyRaw(string(body))
	if err != nil {
		return err
	}
	if hadBOM {
		return src.WriteAtomic(path, source.WithBOM([]byte(out)))
	}
	return src.WriteAtomic(path, []byte(out))
}

// applyRaw is Apply for text that still has its CRLF breaks. Patch spans
// address the normalized text, so each one is mapped onto raw runes first.
// Newlines in a replacement take the ending of the line they land on.
func (k *Kit) applyRaw(raw string) (string, error) {
	runes := []rune(raw)
	// offs[i] is the raw index of normalized rune i; a CRLF maps to its \r.
	offs := make([]int, 0, len(runes)+1)
	for i := 0; i < len(runes); i++ {
		offs = append(offs, i)
		if runes[i] == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
			i++
		}
	}
	offs = append(offs, len(runes))
	size := len(offs) - 1

	ordered := k.Patches()
	for _, p := range ordered {
		start, end := int(p.Span.Start), int(p.Span.End)
		if end > size || start > end {
			return "", &StaleError{Patch: p, Found: "<out of range>"}
		}
		found := strings.ReplaceAll(string(runes[offs[start]:offs[end]]), "\r\n", "\n")
		if found != p.Old {
			return "", &StaleError{Patch: p, Found: found}
		}
	}
	orig := runes // splicing below never writes into this array
	for _, p := range ordered {
		start, end := offs[p.Span.Start], offs[p.Span.End]
		text := p.Text
		if usesCRLF(orig, start, end) {
			text = strings.ReplaceAll(text, "\n", "\r\n")
		}
		tail := runes[end:]
		next := make([]rune, 0, start+len(text)+len(tail))
		next = append(next, runes[:start]...)
		next = append(next, []rune(text)...)
		runes = append(next, tail...)
	}
	return string(runes), nil
}

// usesCRLF reports whether the raw region [start, end) sits on CRLF lines.
// A region that replaces a CRLF uses it. An insertion at a line start
// continues the line above, anything else follows the next break, or the
// last one in a file without a final newline.
func usesCRLF(runes []rune, start, end int) bool {
	for i := start; i+1 < end; i++ {
		if runes[i] == '\r' && runes[i+1] == '\n' {
			return true
		}
	}
	if start == end && start > 0 && runes[start-1] == '\n' {
		return start > 1 && runes[start-2] == '\r'
	}
	for i := end; i < len(runes); i++ {
		if runes[i] == '\n' {
			return i > 0 && runes[i-1] == '\r'
		}
	}
	for i := start - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i > 0 && runes[i-1] == '\r'
		}
	}
	return false
}

// spansConflict reports whether two edits overlap.
// Spans are half-open. Two insertions (Start == End) never conflict. An
// insertion conflicts with a non-empty span if Start <= pos < End.
func spansConflict(a, b source.Span) bool {
	if a.File != b.File {
		return false
	}
	aStart, aEnd := a.Start, a.End
	bStart, bEnd := b.Start, b.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
