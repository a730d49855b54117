// Package report renders run results for people and for tools.
package report

import (
	"github.com/fatih/color"

	"lector/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAsIs prints paths as they were given.
	PathModeAsIs PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode resolves "as-is", "absolute", "relative" or "basename".
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "as-is":
		return PathModeAsIs, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAsIs, false
}

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string // for PathModeRelative; empty means the working directory
	// Source prints the offending line with an underline.
	Source bool
	// MaxReplacements caps the listed replacements; 0 lists none.
	MaxReplacements int
	ShowNotes       bool
}

// DefaultPrettyOpts shows source lines and up to three replacements.
func DefaultPrettyOpts() PrettyOpts {
	return PrettyOpts{Source: true, MaxReplacements: 3, ShowNotes: true}
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	// Positions adds line and column to every location.
	Positions bool
	Patches   bool
}

type palette struct {
	errorC, warnC, infoC, bold, dim, caret, help, add, del *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		errorC: color.New(color.FgRed, color.Bold),
		warnC:  color.New(color.FgYellow, color.Bold),
		infoC:  color.New(color.FgCyan, color.Bold),
		bold:   color.New(color.Bold),
		dim:    color.New(color.FgBlue),
		caret:  color.New(color.FgYellow, color.Bold),
		help:   color.New(color.FgGreen),
		add:    color.New(color.FgGreen),
		del:    color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.errorC, p.warnC, p.infoC, p.bold, p.dim, p.caret, p.help, p.add, p.del} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func formatPath(f *source.File, path string, mode PathMode, base string) string {
	if f == nil {
		f = &source.File{Path: path}
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", base)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	return path
}
