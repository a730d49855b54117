package driver

import (
	"fmt"
	"path/filepath"
	"strings"

	"lector/internal/checker"
	"lector/internal/lexer"
	"lector/internal/observ"
	"lector/internal/reflow"
)

// Mode selects what a run does with its findings.
type Mode uint8

const (
	// ModeCheck reports suggestions only.
	ModeCheck Mode = iota
	// ModeFix applies the first replacement of every suggestion.
	ModeFix
	// ModeReflow rewraps overlong comment paragraphs.
	ModeReflow
)

func (m Mode) String() string {
	switch m {
	case ModeCheck:
		return "check"
	case ModeFix:
		return "fix"
	case ModeReflow:
		return "reflow"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Writes reports whether the mode produces patches.
func (m Mode) Writes() bool { return m == ModeFix || m == ModeReflow }

// MarkdownExtensions are read as markdown documents; every other file is
// scanned for comments.
var MarkdownExtensions = []string{".md", ".markdown"}

// DefaultExtensions are collected when a directory is given.
var DefaultExtensions = []string{".rs", ".md"}

// Options configures Run.
type Options struct {
	Mode Mode
	// Jobs limits concurrent files; <= 0 means GOMAXPROCS.
	Jobs int
	// Checkers is required for ModeCheck and ModeFix. Run does not close it.
	Checkers *checker.Context
	Reflow   reflow.Config
	Extract  lexer.Options
	// DryRun computes patches without writing them.
	DryRun bool
	// MaxDiagnostics caps diagnostics per file.
	MaxDiagnostics int
	Progress       ProgressSink
	Timer          *observ.Timer
}

// DefaultOptions checks doc comments with no checker attached.
func DefaultOptions() Options {
	return Options{
		Mode:           ModeCheck,
		Reflow:         reflow.DefaultConfig(),
		Extract:        lexer.DefaultOptions(),
		MaxDiagnostics: 1000,
	}
}

func (o *Options) validate() error {
	if o.Mode != ModeReflow && o.Checkers == nil {
		return fmt.Errorf("driver: %s needs a checker context", o.Mode)
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 1000
	}
	return nil
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range MarkdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
