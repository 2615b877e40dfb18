package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"tally/internal/diag"
	"tally/internal/observ"
	"tally/internal/source"
	"tally/internal/trace"
)

// SourceExt is the extension of tally source files.
const SourceExt = ".tl"

// DirResult содержит результат проверки одного файла директории.
type DirResult struct {
	Path string // путь как его нашёл обход
	*Result
}

// ListSourceFiles возвращает отсортированный список всех *.tl файлов в директории.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir проверяет все *.tl файлы в директории параллельно. Each file
// still runs the sequential pipeline; results come back in path order.
// The returned error is reserved for cancellation and walk failures; a
// file that fails to load or check is reported in its result.
func CheckDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []DirResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "check-dir")
	defer span.End("")

	// FileSet не потокобезопасен на запись, поэтому грузим всё заранее
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}
	for _, path := range files {
		emit(opts.Progress, Event{File: displayPath(fileSet, path), Stage: StageLoad, Status: StatusQueued})
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]DirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
				results[i] = DirResult{Path: path, Result: &Result{FileSet: fileSet, Bag: bag, Err: loadErr, Stage: StageLoad}}
				emit(opts.Progress, Event{File: displayPath(fileSet, path), Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}

			local := opts
			local.Timer = observ.NewTimer()
			res := checkFile(gctx, fileSet, fileSet.Get(fileIDs[path]), local)
			opts.Timer.Merge(local.Timer)
			results[i] = DirResult{Path: path, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func displayPath(fs *source.FileSet, path string) string {
	if rel, err := source.RelativePath(path, fs.BaseDir()); err == nil {
		return rel
	}
	return path
}
