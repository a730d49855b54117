package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"lector/internal/diag"
	"lector/internal/driver"
	"lector/internal/fix"
	"lector/internal/source"
)

func sample(t *testing.T) *driver.Result {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("lib.rs", []byte("/// Fun shalld\n")))
	d := diag.New(diag.SevWarning, diag.SpellUnknownWord, source.Span{File: f.ID, Start: 8, End: 14}, "unknown word \"shalld\"").
		WithReplacements("shall", "shell")
	d.Checker = "wordlist"
	return &driver.Result{
		Mode:    driver.ModeFix,
		DryRun:  true,
		FileSet: fs,
		Files: []*driver.FileResult{
			{
				Path:        "lib.rs",
				File:        f,
				Diagnostics: []diag.Diagnostic{d},
				Patches: []fix.Patch{{
					Kind: fix.Replace, Path: "lib.rs", Line: 1,
					Span: source.Span{File: f.ID, Start: 8, End: 14}, Old: "shalld", Text: "shall",
				}},
				Remaining: 1,
				Outcome:   driver.OutcomeFindings,
			},
			{
				Path:    "gone.rs",
				Err:     errors.New("no such file"),
				Outcome: driver.OutcomeFailed,
				Diagnostics: []diag.Diagnostic{
					diag.NewError(diag.IOLoadFileError, source.Span{}, "cannot read gone.rs"),
				},
			},
			{Path: "ok.rs", Outcome: driver.OutcomeClean},
		},
	}
}

func TestPrettyUnderlinesTheWord(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultPrettyOpts()
	opts.MaxReplacements = 1
	if err := Pretty(&buf, sample(t).Files, opts); err != nil {
		t.Fatal(err)
	}
	want := "lib.rs:1:9: WARNING SPL1001: unknown word \"shalld\"\n" +
		"  |\n" +
		"1 | /// Fun shalld\n" +
		"  |         ^^^^^^\n" +
		"   = help: \"shall\"\n" +
		"gone.rs: ERROR INT4001: cannot read gone.rs\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyAlignsWideCharacters(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("a.md", []byte("中文 badd\n")))
	d := diag.New(diag.SevWarning, diag.SpellUnknownWord, source.Span{File: f.ID, Start: 3, End: 7}, "x")
	var buf bytes.Buffer
	files := []*driver.FileResult{{Path: "a.md", File: f, Diagnostics: []diag.Diagnostic{d}}}
	if err := Pretty(&buf, files, DefaultPrettyOpts()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "  |      ^^^^\n") {
		t.Fatalf("caret misaligned:\n%s", buf.String())
	}
}

func TestJSONDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sample(t), JSONOpts{Positions: true, Patches: true}); err != nil {
		t.Fatal(err)
	}
	var out Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Mode != "fix" || !out.DryRun || out.Remaining != 1 || len(out.Files) != 3 {
		t.Fatalf("output %+v", out)
	}
	first := out.Files[0]
	loc := first.Diagnostics[0].Location
	if loc == nil || loc.Start != 8 || loc.End != 14 || loc.StartLine != 1 || loc.StartCol != 9 || loc.EndCol != 15 {
		t.Fatalf("location %+v", loc)
	}
	if first.Diagnostics[0].Code != "SPL1001" || first.Diagnostics[0].Checker != "wordlist" {
		t.Fatalf("diagnostic %+v", first.Diagnostics[0])
	}
	if len(first.Patches) != 1 || first.Patches[0].Kind != "replace" || first.Patches[0].Text != "shall" {
		t.Fatalf("patches %+v", first.Patches)
	}
	gone := out.Files[1]
	if gone.Error != "no such file" || gone.Diagnostics[0].Location != nil {
		t.Fatalf("failed file %+v", gone)
	}
	if out.Files[2].Diagnostics == nil {
		t.Fatal("clean file must carry an empty list")
	}
}

func TestPatchesListing(t *testing.T) {
	var buf bytes.Buffer
	if err := Patches(&buf, sample(t).Files, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "lib.rs (1 patch(es))\n  @@ line 1 replace\n  - shalld\n  + shall\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s", buf.String())
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := Summary(&buf, sample(t), PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{
		"  findings lib.rs (0 applied, 1 remaining)\n",
		"    failed gone.rs\n",
		"fix: 3 file(s), 1 findings, 1 failed; 0 applied, 1 correction(s) not written (dry run)\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary lacks %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ok.rs") {
		t.Error("clean files are not listed")
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{"": PathModeAsIs, "absolute": PathModeAbsolute, "basename": PathModeBasename} {
		if got, ok := ParsePathMode(in); !ok || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParsePathMode("short"); ok {
		t.Fatal("expected failure")
	}
}
