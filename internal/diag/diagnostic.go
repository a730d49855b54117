package diag

import (
	"lector/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	// Replacements are ranked, best first.
	Replacements []string
	// Checker names the detector that produced the finding, empty for internal errors.
	Checker string
}
