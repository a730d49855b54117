package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"lector/internal/checker"
	"lector/internal/diag"
	"lector/internal/fix"
	"lector/internal/fsource"
	"lector/internal/observ"
	"lector/internal/reflow"
)

const shalld = "/// Fun facets shalld cause some erroris.\nfn x() {}\n"

func checkers(t *testing.T, kinds ...checker.Kind) *checker.Context {
	t.Helper()
	cfg := checker.DefaultConfig()
	if len(kinds) > 0 {
		cfg.Enabled = kinds
	}
	cfg.Wordlist.Words = strings.Fields("fun facets shall cause some errors title text the cat")
	cfg.Cache.Disabled = true
	x, err := checker.NewContext(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = x.Close() })
	return x
}

func options(t *testing.T, mode Mode) Options {
	opts := DefaultOptions()
	opts.Mode = mode
	opts.Jobs = 2
	if mode != ModeReflow {
		opts.Checkers = checkers(t)
	}
	return opts
}

func codes(ds []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

func TestCheckReportsFileSpans(t *testing.T) {
	src := fsource.NewMemory(map[string]string{"lib.rs": shalld})
	res, err := Run(context.Background(), []string{"lib.rs"}, src, options(t, ModeCheck))
	if err != nil {
		t.Fatal(err)
	}
	fr := res.Files[0]
	if fr.Outcome != OutcomeFindings || fr.Remaining != 2 || res.ExitCode() != 1 {
		t.Fatalf("outcome %v remaining %d", fr.Outcome, fr.Remaining)
	}
	d := fr.Diagnostics[0]
	if d.Code != diag.SpellUnknownWord || d.Primary.Start != 15 || d.Primary.End != 21 {
		t.Fatalf("diagnostic %+v", d)
	}
	if d.Replacements[0] != "shall" || d.Checker != "wordlist" {
		t.Fatalf("diagnostic %+v", d)
	}
	if src.Writes() != 0 {
		t.Fatal("check must not write")
	}
}

func TestFixWritesCorrections(t *testing.T) {
	src := fsource.NewMemory(map[string]string{"lib.rs": shalld})
	opts := options(t, ModeFix)
	opts.Timer = observ.NewTimer()
	res, err := Run(context.Background(), []string{"lib.rs"}, src, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := "/// Fun facets shall cause some errors.\nfn x() {}\n"
	if got := src.Content("lib.rs"); got != want {
		t.Fatalf("content %q", got)
	}
	fr := res.Files[0]
	if fr.Outcome != OutcomeFixed || fr.Applied != 2 || res.ExitCode() != 0 {
		t.Fatalf("outcome %v applied %d remaining %d", fr.Outcome, fr.Applied, fr.Remaining)
	}
	if len(res.Timings.Phases) == 0 {
		t.Fatal("no timings recorded")
	}
}

func TestFixRemovesRepeatedWordAcrossLines(t *testing.T) {
	src := fsource.NewMemory(map[string]string{"lib.rs": "/// the cat\n/// cat\n"})
	opts := options(t, ModeFix)
	opts.Checkers = checkers(t, checker.KindRepeat)
	if _, err := Run(context.Background(), []string{"lib.rs"}, src, opts); err != nil {
		t.Fatal(err)
	}
	if got := src.Content("lib.rs"); got != "/// the cat\n" {
		t.Fatalf("content %q", got)
	}
}

func TestDryRunKeepsFiles(t *testing.T) {
	src := fsource.NewMemory(map[string]string{"lib.rs": shalld})
	opts := options(t, ModeFix)
	opts.DryRun = true
	res, err := Run(context.Background(), []string{"lib.rs"}, src, opts)
	if err != nil {
		t.Fatal(err)
	}
	fr := res.Files[0]
	if src.Writes() != 0 || len(fr.Patches) != 2 || fr.Remaining != 2 || fr.Applied != 0 {
		t.Fatalf("writes %d patches %d remaining %d", src.Writes(), len(fr.Patches), fr.Remaining)
	}
	if fr.Patches[0].Span.Start < fr.Patches[1].Span.Start {
		t.Fatal("patches must be listed in application order")
	}
}

// changing returns different content from the second read on.
type changing struct {
	*fsource.Memory
	reads atomic.Int32
}

func (c *changing) Read(path string) ([]byte, error) {
	if c.reads.Add(1) > 1 {
		return []byte("/// Fun facets shalld cause a erroris.\n"), nil
	}
	return c.Memory.Read(path)
}

func TestStalePatchesAreDiscarded(t *testing.T) {
	mem := fsource.NewMemory(map[string]string{"lib.rs": shalld})
	res, err := Run(context.Background(), []string{"lib.rs"}, &changing{Memory: mem}, options(t, ModeFix))
	if err != nil {
		t.Fatal(err)
	}
	fr := res.Files[0]
	if fr.Outcome != OutcomeFailed || mem.Writes() != 0 || fr.Applied != 0 || fr.Remaining != 2 {
		t.Fatalf("outcome %v writes %d applied %d", fr.Outcome, mem.Writes(), fr.Applied)
	}
	if !errors.Is(fr.Err, fix.ErrStalePatch) {
		t.Fatalf("err = %v", fr.Err)
	}
	found := false
	for _, c := range codes(fr.Diagnostics) {
		found = found || c == diag.IntStalePatch
	}
	if !found {
		t.Fatalf("codes %v", codes(fr.Diagnostics))
	}
}

func TestBrokenFilesDoNotStopTheRun(t *testing.T) {
	src := fsource.NewMemory(map[string]string{
		"bad.rs":  "/* never closed\n",
		"good.rs": shalld,
	})
	res, err := Run(context.Background(), []string{"bad.rs", "missing.rs", "good.rs"}, src, options(t, ModeCheck))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]Outcome{"bad.rs": OutcomeSkipped, "good.rs": OutcomeFindings, "missing.rs": OutcomeFailed}
	wantCode := map[string]diag.Code{"bad.rs": diag.IntMalformedLiteral, "missing.rs": diag.IOLoadFileError}
	for _, fr := range res.Files {
		if fr.Outcome != want[fr.Path] {
			t.Errorf("%s: outcome %v", fr.Path, fr.Outcome)
		}
		if c, ok := wantCode[fr.Path]; ok && (len(fr.Diagnostics) == 0 || fr.Diagnostics[0].Code != c) {
			t.Errorf("%s: codes %v", fr.Path, codes(fr.Diagnostics))
		}
	}
	if !res.Failed() || res.Count(OutcomeFindings) != 1 {
		t.Fatal("summary counts are off")
	}
}

func TestReflowMode(t *testing.T) {
	src := fsource.NewMemory(map[string]string{"lib.rs": "/// aaaa bbbb cccc\nfn x() {}\n"})
	opts := options(t, ModeReflow)
	opts.Reflow = reflow.Config{MaxWidth: 9}
	res, err := Run(context.Background(), []string{"lib.rs"}, src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got := src.Content("lib.rs"); got != "/// aaaa\n/// bbbb\n/// cccc\nfn x() {}\n" {
		t.Fatalf("content %q", got)
	}
	fr := res.Files[0]
	if fr.Outcome != OutcomeFixed || fr.Diagnostics[0].Code != diag.FlowLineTooLong {
		t.Fatalf("outcome %v diagnostics %v", fr.Outcome, codes(fr.Diagnostics))
	}

	// второй прогон ничего не меняет
	res, err = Run(context.Background(), []string{"lib.rs"}, src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Files[0].Outcome != OutcomeClean || src.Writes() != 1 {
		t.Fatalf("second run: %v, %d writes", res.Files[0].Outcome, src.Writes())
	}
}

func TestMarkdownFiles(t *testing.T) {
	src := fsource.NewMemory(map[string]string{"README.md": "# Title\n\nSome shalld `codez` text.\n"})
	res, err := Run(context.Background(), []string{"README.md"}, src, options(t, ModeCheck))
	if err != nil {
		t.Fatal(err)
	}
	ds := res.Files[0].Diagnostics
	if len(ds) != 1 || ds[0].Primary.Start != 14 || ds[0].Primary.End != 20 {
		t.Fatalf("diagnostics %+v", ds)
	}
}

func TestCancelledRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := fsource.NewMemory(map[string]string{"a.rs": shalld, "b.rs": shalld})
	res, err := Run(ctx, []string{"a.rs", "b.rs"}, src, options(t, ModeFix))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if res.Count(OutcomeCancelled) != 2 || src.Writes() != 0 {
		t.Fatalf("cancelled %d writes %d", res.Count(OutcomeCancelled), src.Writes())
	}
}

type countingSink struct{ done, errs atomic.Int32 }

func (s *countingSink) OnEvent(ev Event) {
	switch ev.Status {
	case StatusDone:
		s.done.Add(1)
	case StatusError:
		s.errs.Add(1)
	}
}

func TestManyFilesConcurrently(t *testing.T) {
	files := map[string]string{}
	var paths []string
	for i := range 9 {
		p := fmt.Sprintf("f%d.rs", i)
		files[p] = shalld
		paths = append(paths, p, p)
	}
	src := fsource.NewMemory(files)
	sink := &countingSink{}
	opts := options(t, ModeFix)
	opts.Jobs = 3
	opts.Progress = sink
	res, err := Run(context.Background(), paths, src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Files) != 9 || res.Applied() != 18 || src.Writes() != 9 {
		t.Fatalf("files %d applied %d writes %d", len(res.Files), res.Applied(), src.Writes())
	}
	if sink.done.Load() != 9 || sink.errs.Load() != 0 {
		t.Fatalf("events done=%d err=%d", sink.done.Load(), sink.errs.Load())
	}
}

func TestRunNeedsCheckers(t *testing.T) {
	if _, err := Run(context.Background(), nil, nil, DefaultOptions()); err == nil {
		t.Fatal("expected error without checkers")
	}
}

func TestCollectorKeepsFirstEntry(t *testing.T) {
	var c Collector
	if !c.Store(&FileResult{Path: "b", Applied: 1}) || c.Store(&FileResult{Path: "b", Applied: 2}) {
		t.Fatal("second store must be rejected")
	}
	c.Store(&FileResult{Path: "a"})
	got := c.Sorted()
	if len(got) != 2 || got[0].Path != "a" || got[1].Applied != 1 {
		t.Fatalf("sorted %+v", got)
	}
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a.rs", "docs/b.md", "c.txt", ".git/x.rs", "target/y.rs"} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ListFiles([]string{dir, filepath.Join(dir, "c.txt"), filepath.Join(dir, "a.rs")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.rs"), filepath.Join(dir, "c.txt"), filepath.Join(dir, "docs/b.md")}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("files %v", got)
	}
	if _, err := ListFiles([]string{filepath.Join(dir, "nope")}, nil); err == nil {
		t.Fatal("expected error for missing path")
	}
}
