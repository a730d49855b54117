package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"lector/internal/checker"
	"lector/internal/chunk"
	"lector/internal/diag"
	"lector/internal/fix"
	"lector/internal/fsource"
	"lector/internal/lexer"
	"lector/internal/literal"
	"lector/internal/reflow"
	"lector/internal/source"
	"lector/internal/trace"
)

// Run processes paths concurrently, at most opts.Jobs files at a time.
// A failing file never stops the others. Cancellation is checked before
// each file and before each write; a write that has started always
// finishes. The returned error is the context's when the run was cut short.
func Run(ctx context.Context, paths []string, src fsource.FileSource, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = fsource.Disk{}
	}
	paths = dedupe(paths)

	tr := trace.FromContext(ctx)
	runSpan := trace.Begin(tr, trace.ScopeRun, "run:"+opts.Mode.String(), trace.ParentSpan(ctx))
	ctx = trace.WithParent(ctx, runSpan.ID())

	res := &Result{Mode: opts.Mode, DryRun: opts.DryRun, FileSet: source.NewFileSet()}
	if len(paths) == 0 {
		runSpan.End("no files")
		return res, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageRead, Status: StatusQueued})
	}

	w := &worker{opts: &opts, src: src, fileSet: res.FileSet}
	var col Collector
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for _, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				col.Store(w.cancelled(path, err))
				return nil
			}
			col.Store(w.process(gctx, path))
			return nil
		})
	}
	_ = g.Wait() // задачи не возвращают ошибок

	res.Files = col.Sorted()
	if opts.Timer != nil {
		res.Timings = opts.Timer.Report()
	}
	runSpan.WithExtra("files", fmt.Sprint(len(res.Files))).
		WithExtra("remaining", fmt.Sprint(res.Remaining())).
		End("")
	return res, ctx.Err()
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

type worker struct {
	opts    *Options
	src     fsource.FileSource
	fileSet *source.FileSet
}

// fileRun is the state of one file going through the pipeline.
type fileRun struct {
	res     *FileResult
	bag     *diag.Bag
	rep     diag.Reporter
	kit     *fix.Kit
	pending int // corrections accepted into the kit
	span    *trace.Span
	tracer  trace.Tracer
	started time.Time
}

func (w *worker) cancelled(path string, err error) *FileResult {
	emit(w.opts.Progress, Event{File: path, Stage: StageRead, Status: StatusError, Err: err})
	d := diag.New(diag.SevError, diag.IntCancelled, source.Span{}, "run cancelled before "+path)
	return &FileResult{Path: path, Diagnostics: []diag.Diagnostic{d}, Err: err, Outcome: OutcomeCancelled}
}

func (w *worker) process(ctx context.Context, path string) *FileResult {
	tr := trace.FromContext(ctx)
	bag := diag.NewBag(w.opts.MaxDiagnostics)
	fr := &fileRun{
		res:     &FileResult{Path: path},
		bag:     bag,
		rep:     diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		kit:     fix.NewKit(path),
		span:    trace.Begin(tr, trace.ScopeFile, "file:"+path, trace.ParentSpan(ctx)),
		tracer:  tr,
		started: time.Now(),
	}

	t0 := w.stage(path, StageRead)
	raw, err := w.src.Read(path)
	w.phase("read", t0)
	if err != nil {
		diag.ReportError(fr.rep, diag.IOLoadFileError, source.Span{}, fmt.Sprintf("failed to load %s: %v", path, err)).Emit()
		trace.Failure(tr, "io", err.Error(), fr.span.ID())
		return w.finish(fr, OutcomeFailed, err)
	}
	f := w.fileSet.Get(w.fileSet.AddRaw(path, raw))
	fr.res.File = f

	t0 = w.stage(path, StageExtract)
	chunks, err := w.extract(f)
	w.phase("extract", t0)
	if err != nil {
		sp := source.Span{File: f.ID}
		var me *literal.MalformedLiteralError
		if errors.As(err, &me) {
			sp = me.Span
		}
		diag.ReportError(fr.rep, diag.IntMalformedLiteral, sp, err.Error()).
			WithNote(sp, "file skipped").
			Emit()
		trace.Failure(tr, "malformed-literal", err.Error(), fr.span.ID())
		return w.finish(fr, OutcomeSkipped, err)
	}
	fr.span.WithExtra("chunks", fmt.Sprint(len(chunks)))

	var runErr error
	if w.opts.Mode == ModeReflow {
		t0 = w.stage(path, StageReflow)
		w.reflow(f, chunks, fr)
		w.phase("reflow", t0)
	} else {
		t0 = w.stage(path, StageCheck)
		runErr = w.check(ctx, f, chunks, fr)
		w.phase("check", t0)
		if runErr != nil && ctx.Err() != nil {
			return w.finish(fr, OutcomeCancelled, runErr)
		}
	}

	if fr.pending > 0 {
		fr.res.Patches = fr.kit.Patches()
		if err := w.write(ctx, path, fr); err != nil {
			outcome := OutcomeFailed
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				outcome = OutcomeCancelled
			}
			return w.finish(fr, outcome, err)
		}
	}
	if runErr != nil {
		return w.finish(fr, OutcomeFailed, runErr)
	}
	switch {
	case fr.res.Remaining > 0:
		return w.finish(fr, OutcomeFindings, nil)
	case fr.res.Applied > 0:
		return w.finish(fr, OutcomeFixed, nil)
	}
	return w.finish(fr, OutcomeClean, nil)
}

func (w *worker) extract(f *source.File) ([]*chunk.Chunk, error) {
	if isMarkdown(f.Path) {
		return chunk.FromMarkdown(f), nil
	}
	lits, err := lexer.New(f, w.opts.Extract).All()
	if err != nil {
		return nil, err
	}
	return chunk.Build(f.Path, lits), nil
}

// check runs the checkers on every chunk and, in fix mode, queues the first
// replacement of each suggestion. A checker failure on one chunk is
// reported and the remaining chunks are still checked.
func (w *worker) check(ctx context.Context, f *source.File, chunks []*chunk.Chunk, fr *fileRun) error {
	var firstErr error
	for _, c := range chunks {
		if c.Empty() {
			continue
		}
		trace.Point(fr.tracer, trace.ScopeChunk, "chunk", c.String(), fr.span.ID())
		suggestions, err := w.opts.Checkers.Check(ctx, c)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			diag.ReportError(fr.rep, diag.IntCheckerFailure, chunkSpan(c), err.Error()).Emit()
			trace.Failure(fr.tracer, "checker", err.Error(), fr.span.ID())
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, s := range suggestions {
			w.suggestion(f, c, s, fr)
		}
	}
	return firstErr
}

func (w *worker) suggestion(f *source.File, c *chunk.Chunk, s checker.Suggestion, fr *fileRun) {
	spans, err := resolve(c, s)
	if err != nil {
		// такую находку нельзя показать в файле: отбрасываем
		diag.ReportWarning(fr.rep, diag.IntSpanResolution, chunkSpan(c), err.Error()).Emit()
		trace.Point(fr.tracer, trace.ScopeFile, "dropped-suggestion", err.Error(), fr.span.ID())
		return
	}
	fr.bag.Add(diag.Diagnostic{
		Severity:     diag.SevWarning,
		Code:         s.Detector.Code(),
		Message:      s.Message,
		Primary:      chunk.Primary(spans),
		Replacements: s.Replacements,
		Checker:      s.Detector.String(),
	})
	if w.opts.Mode != ModeFix || len(s.Replacements) == 0 {
		fr.res.Remaining++
		return
	}
	patches, err := fix.BuildPatches(f, c, s.Range, s.Replacements[0])
	if err != nil {
		diag.ReportWarning(fr.rep, diag.IntSpanResolution, chunk.Primary(spans), err.Error()).Emit()
		fr.res.Remaining++
		return
	}
	if len(patches) == 0 {
		return
	}
	w.accept(fr, patches, chunk.Primary(spans))
}

func (w *worker) reflow(f *source.File, chunks []*chunk.Chunk, fr *fileRun) {
	engine := reflow.New(w.opts.Reflow)
	for _, c := range chunks {
		patches, err := engine.Chunk(f, c)
		if err != nil {
			diag.ReportWarning(fr.rep, diag.IntSpanResolution, chunkSpan(c), err.Error()).Emit()
			trace.Point(fr.tracer, trace.ScopeFile, "reflow-failed", err.Error(), fr.span.ID())
			continue
		}
		if len(patches) == 0 {
			continue
		}
		sp := chunkSpan(c)
		diag.ReportWarning(fr.rep, diag.FlowLineTooLong, sp,
			fmt.Sprintf("comment exceeds %d columns", engine.MaxWidth())).Emit()
		w.accept(fr, patches, sp)
	}
}

// accept adds one correction to the kit, or counts it as remaining when it
// overlaps one accepted earlier.
func (w *worker) accept(fr *fileRun, patches []fix.Patch, at source.Span) {
	if err := fr.kit.Add(patches...); err != nil {
		diag.NewReportBuilder(fr.rep, diag.SevInfo, diag.IntPatchConflict, at, err.Error()).
			WithNote(at, "rerun to apply it").
			Emit()
		fr.res.Remaining++
		return
	}
	fr.pending++
}

func (w *worker) write(ctx context.Context, path string, fr *fileRun) error {
	if w.opts.DryRun {
		fr.res.Remaining += fr.pending
		return nil
	}
	if err := ctx.Err(); err != nil {
		fr.res.Remaining += fr.pending
		return err
	}
	t0 := w.stage(path, StageWrite)
	err := fix.WriteBack(w.src, path, fr.kit)
	w.phase("write", t0)
	switch {
	case errors.Is(err, fix.ErrStalePatch):
		diag.ReportError(fr.rep, diag.IntStalePatch, source.Span{File: fr.res.File.ID}, err.Error()).
			WithNote(source.Span{}, fmt.Sprintf("%d correction(s) discarded", fr.pending)).
			Emit()
		trace.Failure(fr.tracer, "stale-patch", err.Error(), fr.span.ID())
	case err != nil:
		diag.ReportError(fr.rep, diag.IOWriteFileError, source.Span{File: fr.res.File.ID}, err.Error()).Emit()
		trace.Failure(fr.tracer, "io", err.Error(), fr.span.ID())
	default:
		fr.res.Applied += fr.pending
		return nil
	}
	fr.res.Remaining += fr.pending
	return err
}

func (w *worker) finish(fr *fileRun, outcome Outcome, err error) *FileResult {
	fr.bag.Sort()
	fr.bag.Dedup()
	if n := fr.bag.Dropped(); n > 0 {
		trace.Point(fr.tracer, trace.ScopeFile, "diagnostics-capped", fmt.Sprintf("%d finding(s) over the limit of %d", n, w.opts.MaxDiagnostics), fr.span.ID())
	}
	fr.res.Diagnostics = append([]diag.Diagnostic(nil), fr.bag.Items()...)
	fr.res.Err = err
	fr.res.Outcome = outcome
	fr.res.Elapsed = time.Since(fr.started)
	fr.span.WithExtra("outcome", outcome.String()).End(fmt.Sprintf("%d remaining", fr.res.Remaining))

	status := StatusDone
	if err != nil {
		status = StatusError
	}
	emit(w.opts.Progress, Event{File: fr.res.Path, Status: status, Err: err, Elapsed: fr.res.Elapsed})
	return fr.res
}

func (w *worker) stage(path string, s Stage) time.Time {
	emit(w.opts.Progress, Event{File: path, Stage: s, Status: StatusWorking})
	return time.Now()
}

func (w *worker) phase(name string, since time.Time) {
	if w.opts.Timer != nil {
		w.opts.Timer.Add(name, time.Since(since))
	}
}

// resolve validates s and maps it to file spans.
func resolve(c *chunk.Chunk, s checker.Suggestion) ([]chunk.FileSpan, error) {
	if err := checker.Validate(c, s); err != nil {
		return nil, err
	}
	return chunk.Resolve(c, s.Range)
}

func chunkSpan(c *chunk.Chunk) source.Span {
	if len(c.Fragments) == 0 {
		return source.Span{}
	}
	return c.Fragments[0].File.Cover(c.Fragments[len(c.Fragments)-1].File)
}
