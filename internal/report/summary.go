package report

import (
	"fmt"
	"io"
	"strings"

	"lector/internal/driver"
)

// Summary prints one status line per file that needs attention, then the
// totals.
func Summary(w io.Writer, res *driver.Result, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	var b strings.Builder
	for _, fr := range res.Files {
		if fr.Outcome == driver.OutcomeClean {
			continue
		}
		path := formatPath(fr.File, fr.Path, opts.PathMode, opts.BaseDir)
		status := fr.Outcome.String()
		switch fr.Outcome {
		case driver.OutcomeFailed, driver.OutcomeSkipped, driver.OutcomeCancelled:
			status = p.errorC.Sprint(status)
		case driver.OutcomeFindings:
			status = p.warnC.Sprint(status)
		case driver.OutcomeFixed:
			status = p.help.Sprint(status)
		}
		fmt.Fprintf(&b, "%10s %s", status, path)
		if fr.Applied > 0 || fr.Remaining > 0 {
			fmt.Fprintf(&b, " (%d applied, %d remaining)", fr.Applied, fr.Remaining)
		}
		b.WriteString("\n")
	}

	parts := []string{fmt.Sprintf("%d file(s)", len(res.Files))}
	for _, o := range []driver.Outcome{driver.OutcomeFindings, driver.OutcomeFixed, driver.OutcomeSkipped, driver.OutcomeFailed, driver.OutcomeCancelled} {
		if n := res.Count(o); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	verb := "suggestion(s) remaining"
	if res.DryRun {
		verb = "correction(s) not written (dry run)"
	}
	fmt.Fprintf(&b, "%s: %s; %d applied, %d %s\n", res.Mode, strings.Join(parts, ", "), res.Applied(), res.Remaining(), verb)
	_, err := io.WriteString(w, b.String())
	return err
}
