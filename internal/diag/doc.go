// Package diag defines the diagnostic model shared by extraction, checking
// and correction.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     checkers (spelling, grammar) and by the pipeline itself (unreadable files,
//     malformed comments, suggestions that cannot be mapped back, stale patches).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//     Ranges: 1000 spelling, 2000 grammar, 3000 reflow, 4000 internal/IO.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – file span in rune offsets.
//   - Replacements – ranked candidate texts, best first.
//
// Corrections themselves are not stored here. internal/fix turns a
// replacement into patches; rendering lives in internal/report.
//
// Code.Fatal marks the classes of errors that exclude a file from
// correction while its diagnostics are still reported.
package diag
