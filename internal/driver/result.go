package driver

import (
	"sort"
	"sync"
	"time"

	"lector/internal/diag"
	"lector/internal/fix"
	"lector/internal/observ"
	"lector/internal/source"
)

// Outcome is the final state of one file.
type Outcome uint8

const (
	// OutcomeClean: nothing to report.
	OutcomeClean Outcome = iota
	// OutcomeFindings: suggestions remain in the file.
	OutcomeFindings
	// OutcomeFixed: patches were written and nothing remains.
	OutcomeFixed
	// OutcomeSkipped: the file could not be extracted.
	OutcomeSkipped
	// OutcomeFailed: an I/O, checker or stale patch error.
	OutcomeFailed
	// OutcomeCancelled: the run stopped before the file finished.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeFindings:
		return "findings"
	case OutcomeFixed:
		return "fixed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	}
	return "unknown"
}

// FileResult is everything a run produced for one file. It is not
// modified after the collector stores it.
type FileResult struct {
	Path        string
	File        *source.File // nil when the file could not be read
	Diagnostics []diag.Diagnostic
	// Patches holds the accepted patches in application order.
	Patches []fix.Patch
	// Applied counts corrections written to disk.
	Applied int
	// Remaining counts suggestions and reflows not written.
	Remaining int
	Err       error
	Outcome   Outcome
	Elapsed   time.Duration
}

// Collector gathers file results from concurrent workers. Entries are
// append-only: a path is stored once and never replaced.
type Collector struct {
	m sync.Map // path -> *FileResult
}

// Store records r and reports whether its path was new.
func (c *Collector) Store(r *FileResult) bool {
	_, loaded := c.m.LoadOrStore(r.Path, r)
	return !loaded
}

// Get returns the result stored for path.
func (c *Collector) Get(path string) (*FileResult, bool) {
	v, ok := c.m.Load(path)
	if !ok {
		return nil, false
	}
	return v.(*FileResult), true
}

// Sorted returns all results ordered by path.
func (c *Collector) Sorted() []*FileResult {
	var out []*FileResult
	c.m.Range(func(_, v any) bool {
		out = append(out, v.(*FileResult))
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Result is the outcome of Run.
type Result struct {
	Mode    Mode
	DryRun  bool
	FileSet *source.FileSet
	Files   []*FileResult
	Timings observ.Report
}

// Remaining counts suggestions left uncorrected across all files.
func (r *Result) Remaining() int {
	n := 0
	for _, f := range r.Files {
		n += f.Remaining
	}
	return n
}

// Applied counts corrections written across all files.
func (r *Result) Applied() int {
	n := 0
	for _, f := range r.Files {
		n += f.Applied
	}
	return n
}

// Count returns how many files ended with outcome o.
func (r *Result) Count(o Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Outcome == o {
			n++
		}
	}
	return n
}

// Failed reports whether any file failed, was skipped or was cancelled.
func (r *Result) Failed() bool {
	return r.Count(OutcomeFailed)+r.Count(OutcomeSkipped)+r.Count(OutcomeCancelled) > 0
}

// ExitCode is 1 when suggestions remain or a file did not complete.
func (r *Result) ExitCode() int {
	if r.Remaining() > 0 || r.Failed() {
		return 1
	}
	return 0
}
