package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"lector/internal/diag"
	"lector/internal/driver"
	"lector/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид, файл за файлом:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	   |
//	 3 | /// some shalld text
//	   |          ^^^^^^
//	   = help: shall, shell
//
// Diagnostics of files that could not be read carry no position.
func Pretty(w io.Writer, files []*driver.FileResult, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, fr := range files {
		path := formatPath(fr.File, fr.Path, opts.PathMode, opts.BaseDir)
		for _, d := range fr.Diagnostics {
			if err := prettyOne(w, p, fr.File, path, d, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func prettyOne(w io.Writer, p palette, f *source.File, path string, d diag.Diagnostic, opts PrettyOpts) error {
	var b strings.Builder
	located := f != nil && d.Primary.File == f.ID && d.Primary.End <= f.RuneCount()
	if located {
		lc := f.LineCol(d.Primary.Start)
		b.WriteString(p.bold.Sprintf("%s:%d:%d:", path, lc.Line, lc.Col))
	} else {
		b.WriteString(p.bold.Sprintf("%s:", path))
	}
	fmt.Fprintf(&b, " %s %s: %s\n", severity(p, d.Severity), d.Code.ID(), d.Message)

	if located && opts.Source {
		writeSource(&b, p, f, d.Primary)
	}
	if n := min(opts.MaxReplacements, len(d.Replacements)); n > 0 {
		shown := make([]string, n)
		for i, r := range d.Replacements[:n] {
			shown[i] = fmt.Sprintf("%q", r)
		}
		fmt.Fprintf(&b, "   %s %s\n", p.dim.Sprint("="), p.help.Sprint("help: "+strings.Join(shown, ", ")))
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "   %s note: %s\n", p.dim.Sprint("="), n.Msg)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func severity(p palette, s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.errorC.Sprint(s.String())
	case diag.SevWarning:
		return p.warnC.Sprint(s.String())
	}
	return p.infoC.Sprint(s.String())
}

// writeSource prints the first line of span with a caret underline. Columns
// are display cells, so wide characters keep the caret aligned.
func writeSource(b *strings.Builder, p palette, f *source.File, span source.Span) {
	lc := f.LineCol(span.Start)
	lr := f.LineRange(lc.Line)
	line := f.Line(lc.Line)
	lineRunes := []rune(line)

	start := int(span.Start - lr.Start)
	end := int(min(span.End, lr.End) - lr.Start)
	start = min(start, len(lineRunes))
	end = max(min(end, len(lineRunes)), start)

	pad := runewidth.StringWidth(string(lineRunes[:start]))
	width := max(runewidth.StringWidth(string(lineRunes[start:end])), 1)

	num := fmt.Sprint(lc.Line)
	gutter := strings.Repeat(" ", len(num)+1)
	fmt.Fprintf(b, "%s%s\n", gutter, p.dim.Sprint("|"))
	fmt.Fprintf(b, "%s %s %s\n", p.dim.Sprint(num), p.dim.Sprint("|"), expandTabs(line))
	fmt.Fprintf(b, "%s%s %s%s\n", gutter, p.dim.Sprint("|"),
		strings.Repeat(" ", pad+tabExtra(lineRunes[:start])), p.caret.Sprint(strings.Repeat("^", width)))
}

const tabWidth = 4

func expandTabs(s string) string { return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth)) }

// tabExtra is the width tabs gain over what runewidth gives them.
func tabExtra(rs []rune) int {
	n := 0
	for _, r := range rs {
		if r == '\t' {
			n += tabWidth - runewidth.RuneWidth(r)
		}
	}
	return n
}
