package driver

import (
	"context"

	"tally/internal/diag"
	"tally/internal/source"
	"tally/internal/trace"
)

// Check runs the full pipeline on the file at path. With opts.Cache set, a
// file whose content was checked cleanly before is answered from the cache.
func Check(ctx context.Context, path string, opts Options) (*Result, error) {
	fs, file, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return checkFile(ctx, fs, file, opts), nil
}

// CheckSource checks in-memory source registered under name.
func CheckSource(ctx context.Context, name string, src []byte, opts Options) *Result {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, src))
	return checkFile(ctx, fs, file, opts)
}

func checkFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *Result {
	if res, ok := lookupCached(ctx, fs, file, opts); ok {
		return res
	}
	res := run(ctx, fs, file, StageSema, opts)
	storeCached(ctx, res, opts)
	return res
}

func lookupCached(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) (*Result, bool) {
	if opts.Cache == nil {
		return nil, false
	}
	env, ok, err := opts.Cache.LoadEnv(file)
	if err != nil {
		// битый кэш не должен ломать проверку
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache error", 0, err.Error())
		return nil, false
	}
	if !ok {
		return nil, false
	}
	trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache hit", 0, file.Path)
	display := displayPath(fs, file.Path)
	emit(opts.Progress, Event{File: display, Stage: StageSema, Status: StatusDone})
	return &Result{
		FileSet: fs,
		File:    file,
		Env:     env,
		Bag:     diag.NewBag(opts.maxDiagnostics()),
		Stage:   StageSema,
		Cached:  true,
	}, true
}

// storeCached keeps only clean results: a hit skips the lexer, so any
// warning it would have reported would be lost.
func storeCached(ctx context.Context, res *Result, opts Options) {
	if opts.Cache == nil || res.Failed() || res.Bag.Len() > 0 || res.Env == nil {
		return
	}
	if err := opts.Cache.StoreEnv(res.File, res.Env); err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache error", 0, err.Error())
	}
}
