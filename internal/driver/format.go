package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"tally/internal/format"
	"tally/internal/source"
)

// FormatOptions configures FormatPaths.
type FormatOptions struct {
	MaxDiagnostics int
	// Write rewrites changed files in place.
	Write bool
	Style format.Options
}

// FormatResult is the outcome for one file. Formatted is nil when Err is set.
type FormatResult struct {
	Path      string
	Formatted []byte
	Changed   bool
	Err       error
}

// FormatSource formats src; a program that does not parse is left alone.
func FormatSource(ctx context.Context, name string, src []byte, opts FormatOptions) FormatResult {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, src))
	return formatFile(ctx, fs, file, opts)
}

// FormatPaths formats files and directories (every *.tl below them).
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := ListSourceFiles(path)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fs, file, err := loadFile(path)
		if err != nil {
			results = append(results, FormatResult{Path: path, Err: err})
			continue
		}
		res := formatFile(ctx, fs, file, opts)
		res.Path = path
		if res.Err == nil && res.Changed && opts.Write {
			if err := os.WriteFile(path, res.Formatted, 0o600); err != nil {
				res.Err = err
			}
		}
		results = append(results, res)
	}
	return results, nil
}

func formatFile(ctx context.Context, fs *source.FileSet, file *source.File, opts FormatOptions) FormatResult {
	res := run(ctx, fs, file, StageParse, Options{MaxDiagnostics: opts.MaxDiagnostics})
	out := FormatResult{Path: file.Path}
	if res.Failed() {
		out.Err = res.Err
		return out
	}
	formatted, err := format.FormatFile(file, res.Tokens, res.Program, opts.Style)
	if err != nil {
		out.Err = err
		return out
	}
	if err := format.CheckRoundTrip(ctx, file, res.Program, formatted); err != nil {
		out.Err = fmt.Errorf("%s: %w", file.Path, err)
		return out
	}
	out.Formatted = formatted
	// BOM и CRLF пропали при загрузке, это тоже изменение
	normalized := file.Flags&(source.FileHadBOM|source.FileNormalizedCRLF|source.FileNormalizedNFC) != 0
	out.Changed = normalized || !bytes.Equal(formatted, file.Content)
	return out
}
