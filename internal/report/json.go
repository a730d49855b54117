package report

import (
	"encoding/json"
	"io"

	"lector/internal/diag"
	"lector/internal/driver"
	"lector/internal/fix"
	"lector/internal/observ"
	"lector/internal/source"
)

// LocationJSON is a rune range of a file, with optional line/column.
type LocationJSON struct {
	File      string `json:"file"`
	Start     uint32 `json:"start"`
	End       uint32 `json:"end"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// DiagnosticJSON is one finding or internal error.
type DiagnosticJSON struct {
	Severity     string        `json:"severity"`
	Code         string        `json:"code"`
	Checker      string        `json:"checker,omitempty"`
	Message      string        `json:"message"`
	Location     *LocationJSON `json:"location,omitempty"`
	Replacements []string      `json:"replacements,omitempty"`
	Notes        []string      `json:"notes,omitempty"`
}

// PatchJSON is one computed edit.
type PatchJSON struct {
	Kind  string `json:"kind"`
	Line  uint32 `json:"line"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
	Old   string `json:"old,omitempty"`
	Text  string `json:"text,omitempty"`
}

// FileJSON is the result of one file.
type FileJSON struct {
	Path        string           `json:"path"`
	Outcome     string           `json:"outcome"`
	Applied     int              `json:"applied"`
	Remaining   int              `json:"remaining"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Patches     []PatchJSON      `json:"patches,omitempty"`
}

// Output is the root of the JSON document.
type Output struct {
	Mode      string         `json:"mode"`
	DryRun    bool           `json:"dry_run,omitempty"`
	Files     []FileJSON     `json:"files"`
	Applied   int            `json:"applied"`
	Remaining int            `json:"remaining"`
	Timings   *observ.Report `json:"timings,omitempty"`
}

// Build assembles the JSON document without serializing it.
func Build(res *driver.Result, opts JSONOpts) Output {
	out := Output{
		Mode:      res.Mode.String(),
		DryRun:    res.DryRun,
		Files:     make([]FileJSON, 0, len(res.Files)),
		Applied:   res.Applied(),
		Remaining: res.Remaining(),
	}
	if len(res.Timings.Phases) > 0 {
		t := res.Timings
		out.Timings = &t
	}
	for _, fr := range res.Files {
		path := formatPath(fr.File, fr.Path, opts.PathMode, opts.BaseDir)
		fj := FileJSON{
			Path:        path,
			Outcome:     fr.Outcome.String(),
			Applied:     fr.Applied,
			Remaining:   fr.Remaining,
			Diagnostics: make([]DiagnosticJSON, 0, len(fr.Diagnostics)),
		}
		if fr.Err != nil {
			fj.Error = fr.Err.Error()
		}
		for _, d := range fr.Diagnostics {
			fj.Diagnostics = append(fj.Diagnostics, diagnosticJSON(fr.File, path, d, opts))
		}
		if opts.Patches {
			for _, p := range fr.Patches {
				fj.Patches = append(fj.Patches, patchJSON(p))
			}
		}
		out.Files = append(out.Files, fj)
	}
	return out
}

func diagnosticJSON(f *source.File, path string, d diag.Diagnostic, opts JSONOpts) DiagnosticJSON {
	dj := DiagnosticJSON{
		Severity:     d.Severity.String(),
		Code:         d.Code.ID(),
		Checker:      d.Checker,
		Message:      d.Message,
		Replacements: d.Replacements,
	}
	if f != nil && d.Primary.File == f.ID && d.Primary.End <= f.RuneCount() {
		loc := &LocationJSON{File: path, Start: d.Primary.Start, End: d.Primary.End}
		if opts.Positions {
			start, end := f.LineCol(d.Primary.Start), f.LineCol(d.Primary.End)
			loc.StartLine, loc.StartCol = start.Line, start.Col
			loc.EndLine, loc.EndCol = end.Line, end.Col
		}
		dj.Location = loc
	}
	for _, n := range d.Notes {
		dj.Notes = append(dj.Notes, n.Msg)
	}
	return dj
}

func patchJSON(p fix.Patch) PatchJSON {
	return PatchJSON{
		Kind:  p.Kind.String(),
		Line:  p.Line,
		Start: p.Span.Start,
		End:   p.Span.End,
		Old:   p.Old,
		Text:  p.Text,
	}
}

// JSON writes the result as an indented JSON document.
func JSON(w io.Writer, res *driver.Result, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Build(res, opts))
}
