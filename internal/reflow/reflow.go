// Package reflow re-wraps comment and markdown paragraphs to a maximum
// line width. Only whitespace moves; every other character stays put.
package reflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"lector/internal/chunk"
	"lector/internal/fix"
	"lector/internal/literal"
	"lector/internal/markdown"
	"lector/internal/source"
)

// ErrNoChange is returned for a paragraph that already fits.
var ErrNoChange = errors.New("reflow: no change")

// DefaultMaxWidth is the line width used when none is configured.
const DefaultMaxWidth = 80

// State is the phase of the engine for the paragraph being processed.
type State uint8

const (
	Scanning State = iota // collecting unbreakable ranges
	Wrapping              // greedy fill
	Emitting              // prefix reconstruction and patches
	Done
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Wrapping:
		return "wrapping"
	case Emitting:
		return "emitting"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Config controls wrapping.
type Config struct {
	MaxWidth int
	// Unbreakable lists words and phrases a line break must never split.
	Unbreakable []string
}

// DefaultConfig returns the 80 column configuration.
func DefaultConfig() Config {
	return Config{MaxWidth: DefaultMaxWidth}
}

// Engine reflows chunks of one file. It is not safe for concurrent use.
type Engine struct {
	cfg   Config
	state State
}

// New returns an engine; a non-positive width falls back to DefaultMaxWidth.
func New(cfg Config) *Engine {
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = DefaultMaxWidth
	}
	return &Engine{cfg: cfg, state: Done}
}

// State reports the phase the engine is in.
func (e *Engine) State() State { return e.state }

// MaxWidth is the configured line width.
func (e *Engine) MaxWidth() int { return e.cfg.MaxWidth }

// Chunk reflows every prose paragraph of c and returns the patches.
// Headings, lists and code blocks are left alone.
func (e *Engine) Chunk(f *source.File, c *chunk.Chunk) ([]fix.Patch, error) {
	if c.Variant == literal.Markdown && c.Block != markdown.Paragraph {
		return nil, nil
	}
	var out []fix.Patch
	for _, p := range markdown.Paragraphs(c.Text()) {
		patches, err := e.Paragraph(f, c, p)
		if errors.Is(err, ErrNoChange) {
			continue
		}
		if err != nil {
			return out, err
		}
		out = append(out, patches...)
	}
	return out, nil
}

// Paragraph reflows the chunk lines p.First..p.Last.
func (e *Engine) Paragraph(f *source.File, c *chunk.Chunk, p markdown.LineSpan) ([]fix.Patch, error) {
	if p.First < 0 || p.Last >= len(c.Fragments) || p.First > p.Last {
		return nil, fmt.Errorf("reflow: paragraph %d..%d outside of %d lines", p.First, p.Last, len(c.Fragments))
	}
	e.state = Scanning
	frags := c.Fragments[p.First : p.Last+1]
	if !e.overflows(frags, c) {
		e.state = Done
		return nil, ErrNoChange
	}
	r := source.MustRange(frags[0].Range.Start, frags[len(frags)-1].Range.End)
	text := c.Sub(r)
	unbreakable := e.unbreakables(text)

	e.state = Wrapping
	first, cont := frags[0].Prefix, frags[0].Continuation
	lines := Wrap(text, unbreakable, func(line int) int {
		if line == 0 {
			return e.cfg.MaxWidth - runewidth.StringWidth(first)
		}
		return e.cfg.MaxWidth - runewidth.StringWidth(cont)
	})

	e.state = Emitting
	defer func() { e.state = Done }()
	reflowed := strings.Join(lines, chunk.Separator)
	if reflowed == text {
		return nil, ErrNoChange
	}
	patches, err := fix.BuildPatches(f, c, r, reflowed)
	if err != nil {
		return nil, err
	}
	if len(patches) == 0 {
		return nil, ErrNoChange
	}
	return patches, nil
}

func (e *Engine) overflows(frags []chunk.Fragment, c *chunk.Chunk) bool {
	for _, fr := range frags {
		if runewidth.StringWidth(fr.Prefix)+runewidth.StringWidth(c.Sub(fr.Range)) > e.cfg.MaxWidth {
			return true
		}
	}
	return false
}

// unbreakables adds the configured words to the markup ranges of text.
func (e *Engine) unbreakables(text string) []source.Range {
	out := markdown.Unbreakables(text)
	for _, w := range e.cfg.Unbreakable {
		if w == "" {
			continue
		}
		for from := 0; ; {
			i := strings.Index(text[from:], w)
			if i < 0 {
				break
			}
			start := from + i
			out = append(out, source.ByteToRuneRange(text, start, start+len(w)))
			from = start + len(w)
		}
	}
	return markdown.Merge(out)
}
