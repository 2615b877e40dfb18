package driver

import (
	"context"
	"strconv"

	"tally/internal/ast"
	"tally/internal/diag"
	"tally/internal/lexer"
	"tally/internal/observ"
	"tally/internal/parser"
	"tally/internal/sema"
	"tally/internal/source"
	"tally/internal/token"
	"tally/internal/trace"
)

// Options configures one pipeline run.
type Options struct {
	MaxDiagnostics int
	// KeepComments passes Comment tokens on to the parser, which skips
	// them between statements.
	KeepComments bool
	Timer        *observ.Timer // nil - без замеров
	Progress     ProgressSink  // nil - без событий
	Cache        *DiskCache    // nil - без кэша; используется только Check
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// Result holds whatever the pipeline produced before it stopped.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // все токены, включая пробелы, комментарии и EOF
	Program *ast.Program
	Env     *sema.Env
	Bag     *diag.Bag
	// Err is the first fatal error; its diagnostic is also in Bag.
	Err error
	// Stage is the last stage that ran (and failed, if Err is set).
	Stage  Stage
	Cached bool
}

// Failed reports whether a stage stopped the pipeline.
func (r *Result) Failed() bool {
	return r != nil && r.Err != nil
}

// stageCodes are fallback codes for errors that carry no diagnostic.
var stageCodes = map[Stage]diag.Code{
	StageLex:   diag.LexInfo,
	StageParse: diag.SynInfo,
	StageSema:  diag.SemaError,
}

// run drives file through the stages up to and including until.
// Every stage is fail-fast: the first error stops the run.
func run(ctx context.Context, fs *source.FileSet, file *source.File, until Stage, opts Options) *Result {
	res := &Result{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.maxDiagnostics()),
	}
	display := displayPath(fs, file.Path)
	span, ctx := trace.StartSpan(ctx, trace.ScopeFile, display)
	defer func() { span.EndErr(res.Err) }()

	fail := func(stage Stage, err error) *Result {
		res.Stage = stage
		res.Err = err
		res.Bag.AddError(err, stageCodes[stage])
		emit(opts.Progress, Event{File: display, Stage: stage, Status: StatusError, Err: err})
		return res
	}
	working := func(stage Stage) {
		res.Stage = stage
		emit(opts.Progress, Event{File: display, Stage: stage, Status: StatusWorking})
	}

	// lex
	working(StageLex)
	done := opts.Timer.Track(string(StageLex))
	toks, err := lexer.TokenizeContext(ctx, file, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	res.Tokens = toks
	done(strconv.Itoa(len(toks)) + " tokens")
	if err != nil {
		return fail(StageLex, err)
	}
	if until == StageLex {
		return finish(res, display, opts)
	}

	// parse
	working(StageParse)
	done = opts.Timer.Track(string(StageParse))
	prog, err := parser.Parse(ctx, parser.FromSlice(FilterTrivia(toks, opts.KeepComments)))
	if err != nil {
		done("")
		return fail(StageParse, err)
	}
	res.Program = prog
	done(strconv.Itoa(len(prog.Nodes)) + " stmts")
	if until == StageParse {
		return finish(res, display, opts)
	}

	// sema
	working(StageSema)
	done = opts.Timer.Track(string(StageSema))
	env, err := sema.Check(ctx, prog)
	if err != nil {
		done("")
		return fail(StageSema, err)
	}
	res.Env = env
	done(strconv.Itoa(env.Len()) + " bindings")
	return finish(res, display, opts)
}

func finish(res *Result, display string, opts Options) *Result {
	emit(opts.Progress, Event{File: display, Stage: res.Stage, Status: StatusDone})
	return res
}

// FilterTrivia drops whitespace (and comments unless keepComments) before
// the tokens reach the parser. EOF is kept.
func FilterTrivia(toks []token.Token, keepComments bool) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		switch tok.Kind {
		case token.Whitespace:
			continue
		case token.Comment:
			if !keepComments {
				continue
			}
		}
		out = append(out, tok)
	}
	return out
}

// loadFile reads path into a fresh FileSet.
func loadFile(path string) (*source.FileSet, *source.File, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return fs, fs.Get(fileID), nil
}
