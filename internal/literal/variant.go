package literal

import (
	"fmt"
	"strings"
)

// Variant classifies the lexical shape of a comment.
type Variant uint8

const (
	LineDoc       Variant = iota // ///
	InnerLineDoc                 // //!
	BlockDoc                     // /** */
	InnerBlockDoc                // /*! */
	PlainLine                    // //
	PlainBlock                   // /* */
	Markdown
)

var variantNames = [...]string{
	LineDoc:       "line-doc",
	InnerLineDoc:  "inner-line-doc",
	BlockDoc:      "block-doc",
	InnerBlockDoc: "inner-block-doc",
	PlainLine:     "line",
	PlainBlock:    "block",
	Markdown:      "markdown",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return fmt.Sprintf("variant(%d)", v)
}

// ParseVariant accepts the names produced by String.
func ParseVariant(s string) (Variant, error) {
	for i, name := range variantNames {
		if strings.EqualFold(s, name) {
			return Variant(i), nil // #nosec G115 -- small table
		}
	}
	return 0, fmt.Errorf("unknown comment variant %q", s)
}

// Marker returns the opening token.
func (v Variant) Marker() string {
	switch v {
	case LineDoc:
		return "///"
	case InnerLineDoc:
		return "//!"
	case BlockDoc:
		return "/**"
	case InnerBlockDoc:
		return "/*!"
	case PlainLine:
		return "//"
	case PlainBlock:
		return "/*"
	}
	return ""
}

// Closer returns the closing token of block variants.
func (v Variant) Closer() string {
	if v.IsBlock() {
		return "*/"
	}
	return ""
}

// IsBlock reports whether one token may span several physical lines.
func (v Variant) IsBlock() bool {
	return v == BlockDoc || v == InnerBlockDoc || v == PlainBlock
}

// IsDoc reports whether the variant is documentation rather than a developer note.
func (v Variant) IsDoc() bool {
	switch v {
	case LineDoc, InnerLineDoc, BlockDoc, InnerBlockDoc, Markdown:
		return true
	}
	return false
}

// LinePrefix is prepended to every new physical line when text of this
// variant is re-emitted. Block variants carry no per-line marker.
func (v Variant) LinePrefix() string {
	switch v {
	case LineDoc, InnerLineDoc, PlainLine:
		return v.Marker() + " "
	}
	return ""
}

// NeedsLeadingSpace reports whether content after the marker needs a
// separating space to stay valid.
// `///foo` would still be a doc line but `////foo` is not, so line
// variants always keep one.
func (v Variant) NeedsLeadingSpace() bool {
	switch v {
	case LineDoc, InnerLineDoc, PlainLine:
		return true
	}
	return false
}

// Family groups variants that may be merged into one chunk.
// Outer and inner doc lines never mix, neither do docs and plain comments.
func (v Variant) Family() Variant {
	return v
}

// Classify determines the variant from the first bytes of a comment token.
// ok is false for text that is not a comment opener.
func Classify(raw string) (Variant, bool) {
	switch {
	case strings.HasPrefix(raw, "////"):
		// четыре слеша это обычный комментарий, не документация
		return PlainLine, true
	case strings.HasPrefix(raw, "///"):
		return LineDoc, true
	case strings.HasPrefix(raw, "//!"):
		return InnerLineDoc, true
	case strings.HasPrefix(raw, "//"):
		return PlainLine, true
	case strings.HasPrefix(raw, "/***"), strings.HasPrefix(raw, "/**/"):
		return PlainBlock, true
	case strings.HasPrefix(raw, "/**"):
		return BlockDoc, true
	case strings.HasPrefix(raw, "/*!"):
		return InnerBlockDoc, true
	case strings.HasPrefix(raw, "/*"):
		return PlainBlock, true
	}
	return 0, false
}
