package markdown

import (
	"regexp"
	"slices"

	"lector/internal/source"
)

var (
	reCode     = regexp.MustCompile("(?s)``.+?``|`[^`]+`")
	reLink     = regexp.MustCompile(`(!?\[)([^\]\n]*)(\]\([^)\s]*(?:\s+"[^"]*")?\)|\]\[[^\]\n]*\])`)
	reAutolink = regexp.MustCompile(`<(?:https?|ftp|mailto):[^>\s]+>`)
	reURL      = regexp.MustCompile(`\bhttps?://[^\s<>()\[\]]+`)
	reHTML     = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9-]*(?:\s[^<>\n]*)?/?>`)
	reEmph     = regexp.MustCompile(`\*\*[^*\n]+\*\*|__[^_\n]+__|\*[^*\s][^*\n]*\*|\b_[^_\s][^_\n]*_\b`)
)

// Hidden returns the rune ranges of text that checkers must not see:
// inline code, link destinations and brackets, autolinks, bare URLs and HTML tags.
// Link labels stay visible. The result is sorted and merged.
func Hidden(text string) []source.Range {
	var byteRanges [][2]int
	for _, m := range reCode.FindAllStringIndex(text, -1) {
		byteRanges = append(byteRanges, [2]int{m[0], m[1]})
	}
	for _, m := range reLink.FindAllStringSubmatchIndex(text, -1) {
		// "[" или "![" перед меткой и "](dest)" после неё
		byteRanges = append(byteRanges, [2]int{m[2], m[3]}, [2]int{m[6], m[7]})
	}
	for _, re := range []*regexp.Regexp{reAutolink, reURL, reHTML} {
		for _, m := range re.FindAllStringIndex(text, -1) {
			byteRanges = append(byteRanges, [2]int{m[0], m[1]})
		}
	}
	return toRuneRanges(text, byteRanges)
}

// Unbreakables returns the rune ranges a line break must not split: inline
// code, whole links (label and destination), autolinks, bare URLs and
// emphasis runs. The result is sorted and merged.
func Unbreakables(text string) []source.Range {
	var byteRanges [][2]int
	for _, re := range []*regexp.Regexp{reCode, reLink, reAutolink, reURL, reEmph} {
		for _, m := range re.FindAllStringIndex(text, -1) {
			byteRanges = append(byteRanges, [2]int{m[0], m[1]})
		}
	}
	return toRuneRanges(text, byteRanges)
}

func toRuneRanges(text string, byteRanges [][2]int) []source.Range {
	out := make([]source.Range, 0, len(byteRanges))
	for _, br := range byteRanges {
		if br[1] > br[0] {
			out = append(out, source.ByteToRuneRange(text, br[0], br[1]))
		}
	}
	return Merge(out)
}

// Merge sorts ranges and joins the overlapping ones.
func Merge(ranges []source.Range) []source.Range {
	if len(ranges) == 0 {
		return nil
	}
	slices.SortFunc(ranges, func(a, b source.Range) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})
	out := []source.Range{ranges[0]}
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.Start < last.End {
			last.End = max(last.End, r.End)
			continue
		}
		out = append(out, r)
	}
	return out
}

// Erase replaces every hidden rune with a space. Offsets are preserved, so a
// range found in the erased text addresses the same runes in the original.
func Erase(text string, hidden []source.Range) string {
	if len(hidden) == 0 {
		return text
	}
	runes := []rune(text)
	for _, h := range hidden {
		for i := h.Start; i < h.End && i < len(runes); i++ {
			if runes[i] != '\n' {
				runes[i] = ' '
			}
		}
	}
	return string(runes)
}
