package main

import (
	"fmt"
	"io"

	"lector/internal/observ"
)

// printTimings prints top-level phases first, then the summed per-file
// stages the driver recorded.
func printTimings(out io.Writer, report observ.Report) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	for _, p := range report.Phases {
		if p.Note != "" {
			fmt.Fprintf(out, "%-10s %8.1f ms  %s\n", p.Name, p.DurationMS, p.Note)
		} else {
			fmt.Fprintf(out, "%-10s %8.1f ms\n", p.Name, p.DurationMS)
		}
	}
	fmt.Fprintf(out, "%-10s %8.1f ms\n", "total", report.TotalMS)
}
