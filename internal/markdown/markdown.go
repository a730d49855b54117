// Package markdown finds the prose in markdown text: the flow blocks a
// checker should see and the inline ranges it should not.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// BlockKind tells paragraphs from headings.
type BlockKind uint8

const (
	Paragraph BlockKind = iota
	Heading
	// ListText is the text of a tight list item.
	ListText
)

func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case ListText:
		return "list item"
	}
	return "block"
}

// Line is the content of one physical line of a block, in byte offsets of the
// parsed source. Container markup ("> ", "- ") and surrounding whitespace are
// outside of it.
type Line struct {
	Start int
	End   int
}

// Block is one flow-content block.
type Block struct {
	Kind  BlockKind
	Lines []Line
	// TopLevel is set for blocks that are direct children of the document.
	TopLevel bool
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse returns the goldmark document for src.
func Parse(src []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(src))
}

// Blocks returns the prose blocks of src in document order. Code blocks,
// HTML blocks and tables are skipped.
func Blocks(src []byte) []Block {
	doc := Parse(src)
	var out []Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var kind BlockKind
		switch n.(type) {
		case *ast.Paragraph:
			kind = Paragraph
		case *ast.Heading:
			kind = Heading
		case *ast.TextBlock:
			kind = ListText
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *east.Table:
			return ast.WalkSkipChildren, nil
		default:
			return ast.WalkContinue, nil
		}
		b := Block{Kind: kind, TopLevel: n.Parent() != nil && n.Parent().Kind() == ast.KindDocument}
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			start, end := trimSegment(src, seg.Start, seg.Stop)
			b.Lines = append(b.Lines, Line{Start: start, End: end})
		}
		if len(b.Lines) > 0 {
			out = append(out, b)
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

func trimSegment(src []byte, start, end int) (int, int) {
	for start < end && isSpace(src[start]) {
		start++
	}
	for end > start && (isSpace(src[end-1]) || src[end-1] == '\n' || src[end-1] == '\r') {
		end--
	}
	return start, end
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// LineSpan is an inclusive range of 0-based line indices.
type LineSpan struct {
	First int
	Last  int
}

// Paragraphs returns the top-level paragraphs of text as line ranges.
// Only these may be reflowed: headings, lists, quotes and code keep their
// line structure.
func Paragraphs(text string) []LineSpan {
	src := []byte(text)
	var out []LineSpan
	for _, b := range Blocks(src) {
		if b.Kind != Paragraph || !b.TopLevel {
			continue
		}
		first := bytes.Count(src[:b.Lines[0].Start], []byte("\n"))
		last := bytes.Count(src[:b.Lines[len(b.Lines)-1].Start], []byte("\n"))
		out = append(out, LineSpan{First: first, Last: last})
	}
	return out
}
