// Package trace records what a run did: which files were processed, which
// suggestions were dropped and which patches went stale.
//
// Tracing is off by default. Enable it from the command line:
//
//	lector check --trace=- --trace-level=file src/
//
// A tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, 0)
//	defer span.End("")
//
// Levels select scopes: "run" emits run boundaries, "file" adds per-file
// spans, "debug" adds chunk-level events. Stream tracers write text or
// NDJSON immediately, ring tracers keep the last events in memory.
package trace
