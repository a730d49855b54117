package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one file. Findings beyond the limit are
// counted, not stored; errors are always kept so a failed file never
// loses the reason.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
}

func NewBag(limit int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, min(max(limit, 0), 64)),
		limit: limit,
	}
}

// Add stores d and reports whether it was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if d.Severity < SevError && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped returns how many findings did not fit under the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает внутренний срез, не модифицировать.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders by position in the file, then severity (errors first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code.ID(), y.Code.ID()),
		)
	})
}

// Dedup drops repeated findings: same code, span and message.
// Two checkers flagging one word with different text both survive.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span [3]uint32
		msg  string
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, [3]uint32{uint32(d.Primary.File), d.Primary.Start, d.Primary.End}, d.Message}
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
