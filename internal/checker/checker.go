// Package checker runs spelling checkers over chunks. The core only relies
// on the Checker interface; which checkers run is selected by Config.
package checker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"lector/internal/chunk"
	"lector/internal/diag"
	"lector/internal/source"
)

// Kind names a concrete checker.
type Kind uint8

const (
	KindWordlist Kind = iota + 1
	KindRepeat
	KindDummy
)

var kindNames = map[Kind]string{
	KindWordlist: "wordlist",
	KindRepeat:   "repeat",
	KindDummy:    "dummy",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind resolves a checker name.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown checker %q (want wordlist, repeat or dummy)", s)
}

// Code returns the diagnostic code of the checker's findings.
func (k Kind) Code() diag.Code {
	switch k {
	case KindWordlist:
		return diag.SpellUnknownWord
	case KindRepeat:
		return diag.SpellRepeatWord
	case KindDummy:
		return diag.SpellDummy
	}
	return diag.UnknownCode
}

// Suggestion is a checker finding in chunk coordinates.
type Suggestion struct {
	Range        source.Range `msgpack:"r"`
	Message      string       `msgpack:"m"`
	Replacements []string     `msgpack:"p"` // ranked, best first
	Detector     Kind         `msgpack:"d"`
}

// Checker inspects one chunk. Implementations must be safe for concurrent
// use: the driver calls them from several workers.
type Checker interface {
	Check(ctx context.Context, c *chunk.Chunk) ([]Suggestion, error)
}

// ErrInvalidSuggestion marks suggestions whose range does not address chunk text.
var ErrInvalidSuggestion = errors.New("invalid suggestion range")

// Error is a checker failure on one chunk.
type Error struct {
	Checker Kind
	Chunk   string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s checker on %s: %v", e.Checker, e.Chunk, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Validate rejects empty or out of range suggestions. Zero-length ranges
// are never a correction target.
func Validate(c *chunk.Chunk, s Suggestion) error {
	switch {
	case !s.Range.Valid() || s.Range.End > c.Len():
		return fmt.Errorf("%w: %s outside of 0..%d", ErrInvalidSuggestion, s.Range, c.Len())
	case s.Range.Empty():
		return fmt.Errorf("%w: empty range at %d", ErrInvalidSuggestion, s.Range.Start)
	}
	return nil
}

// Sort orders suggestions by position, then by detector.
func Sort(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i], s[j]
		if a.Range.Start != b.Range.Start {
			return a.Range.Start < b.Range.Start
		}
		if a.Range.End != b.Range.End {
			return a.Range.End < b.Range.End
		}
		return a.Detector < b.Detector
	})
}
