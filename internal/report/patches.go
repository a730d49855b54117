package report

import (
	"fmt"
	"io"
	"strings"

	"lector/internal/driver"
	"lector/internal/fix"
)

// Patches lists the computed patches of every file, in application order,
// as a removed/added line pair per patch. Used for dry runs.
func Patches(w io.Writer, files []*driver.FileResult, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder
	for _, fr := range files {
		if len(fr.Patches) == 0 {
			continue
		}
		path := formatPath(fr.File, fr.Path, opts.PathMode, opts.BaseDir)
		fmt.Fprintf(&b, "%s %s\n", p.bold.Sprint(path), p.dim.Sprintf("(%d patch(es))", len(fr.Patches)))
		for _, pt := range fr.Patches {
			writePatch(&b, p, pt)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writePatch(b *strings.Builder, p palette, pt fix.Patch) {
	fmt.Fprintf(b, "  %s %s\n", p.dim.Sprintf("@@ line %d", pt.Line), pt.Kind)
	if pt.Old != "" {
		for _, l := range strings.Split(pt.Old, "\n") {
			fmt.Fprintf(b, "  %s\n", p.del.Sprint("- "+visible(l)))
		}
	}
	if pt.Text != "" {
		for _, l := range strings.Split(pt.Text, "\n") {
			fmt.Fprintf(b, "  %s\n", p.add.Sprint("+ "+visible(l)))
		}
	}
}

// visible marks an empty piece so a removed line break is not an invisible line.
func visible(s string) string {
	if s == "" {
		return "⏎"
	}
	return s
}
