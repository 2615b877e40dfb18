package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/diag"
	"tally/internal/diagfmt"
	"tally/internal/driver"
	"tally/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.tl|directory>",
	Short: "Type-check a tally source file or directory",
	Long: `Check runs the lexer, parser and type checker and prints the resulting
environment (name : Type per binding) or the first error of each file.
With -e the program is taken from the command line instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().StringP("eval", "e", "", "check the given source instead of a file")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	checkCmd.Flags().Bool("cache", false, "reuse environments of unchanged files (see [cache] in tally.toml)")
	checkCmd.Flags().Bool("no-cache", false, "disable the cache even if tally.toml enables it")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in short and json output")
	checkCmd.Flags().Bool("with-fixes", false, "include suggested fixes in json output")
}

// checkOutput holds the rendering options shared by file and directory mode.
type checkOutput struct {
	format    string
	pathMode  diagfmt.PathMode
	withNotes bool
	withFixes bool
	color     bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := settings.formatFlag(cmd, "pretty", "json", "short")
	if err != nil {
		return err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	withFixes, err := cmd.Flags().GetBool("with-fixes")
	if err != nil {
		return fmt.Errorf("failed to get with-fixes flag: %w", err)
	}
	eval, err := cmd.Flags().GetString("eval")
	if err != nil {
		return fmt.Errorf("failed to get eval flag: %w", err)
	}
	if (eval == "") == (len(args) == 0) {
		return errors.New("check needs exactly one of <path> or -e <source>")
	}

	out := checkOutput{format: format, withNotes: withNotes, withFixes: withFixes, color: settings.useColor(os.Stdout)}
	if fullPath {
		out.pathMode = diagfmt.PathModeAbsolute
	}

	opts := driver.Options{
		MaxDiagnostics: settings.cfg.Output.MaxDiagnostics,
		KeepComments:   settings.cfg.Lexer.KeepComments,
		Timer:          newRunTimer(),
	}
	if opts.Cache, err = openCache(cmd); err != nil {
		return err
	}
	defer printTimings(opts.Timer)

	if eval != "" {
		res := driver.CheckSource(cmd.Context(), "<eval>", []byte(eval), opts)
		return out.file(os.Stdout, res)
	}

	st, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		res, err := driver.Check(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		return out.file(os.Stdout, res)
	}
	return runCheckDir(cmd, args[0], opts, out)
}

func runCheckDir(cmd *cobra.Command, dir string, opts driver.Options, out checkOutput) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var (
		fs      *source.FileSet
		results []driver.DirResult
	)
	if mode.enabled(out.format, settings.quiet) {
		fs, results, err = runCheckDirWithUI(cmd.Context(), "checking "+dir, dir, opts, jobs)
	} else {
		fs, results, err = driver.CheckDir(cmd.Context(), dir, opts, jobs)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	return out.dir(os.Stdout, fs, results)
}

// file renders a single-file result and maps failures to errDiagnostics.
func (o checkOutput) file(w io.Writer, res *driver.Result) error {
	switch o.format {
	case "short":
		o.short(w, res.Bag.Items(), res.FileSet)
	case "json":
		if err := diagfmt.FormatFileEnvJSON(w, o.fileEnv(res, res.FileSet)); err != nil {
			return err
		}
	default:
		o.pretty(w, res, res.FileSet)
	}
	return exitStatus(res)
}

func (o checkOutput) dir(w io.Writer, fs *source.FileSet, results []driver.DirResult) error {
	var failed error
	switch o.format {
	case "short":
		var all []diag.Diagnostic
		for _, r := range results {
			all = append(all, r.Bag.Items()...)
		}
		o.short(w, all, fs)
	case "json":
		entries := make([]diagfmt.FileEnvOutput, 0, len(results))
		for _, r := range results {
			entries = append(entries, o.fileEnv(r.Result, fs))
		}
		if err := diagfmt.FormatFilesEnvJSON(w, entries); err != nil {
			return err
		}
	default:
		for i, r := range results {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", o.displayPath(fs, r.Path))
			o.pretty(w, r.Result, fs)
		}
	}
	for _, r := range results {
		if err := exitStatus(r.Result); err != nil {
			failed = err
		}
	}
	return failed
}

func (o checkOutput) pretty(w io.Writer, res *driver.Result, fs *source.FileSet) {
	diagfmt.Pretty(w, res.Bag, fs, diagfmt.PrettyOpts{
		Color:     o.color,
		Context:   2,
		PathMode:  o.pathMode,
		ShowNotes: true,
		ShowFixes: true,
		Max:       settings.cfg.Output.MaxDiagnostics,
	})
	if res.Failed() || res.Env == nil || settings.quiet {
		return
	}
	_ = diagfmt.FormatEnvPretty(w, res.Env)
}

func (o checkOutput) short(w io.Writer, items []diag.Diagnostic, fs *source.FileSet) {
	if text := diag.FormatGoldenDiagnostics(items, fs, o.withNotes); text != "" {
		fmt.Fprintln(w, text)
	}
}

func (o checkOutput) fileEnv(res *driver.Result, fs *source.FileSet) diagfmt.FileEnvOutput {
	diags := diagfmt.BuildDiagnosticsOutput(res.Bag, fs, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         o.pathMode,
		IncludeNotes:     o.withNotes,
		IncludeFixes:     o.withFixes,
		Max:              settings.cfg.Output.MaxDiagnostics,
	})
	path := ""
	if res.File != nil {
		path = o.displayPath(fs, res.File.Path)
	}
	return diagfmt.BuildFileEnvOutput(path, res.Env, res.Cached, diags)
}

func (o checkOutput) displayPath(fs *source.FileSet, path string) string {
	if o.pathMode == diagfmt.PathModeAbsolute {
		if abs, err := source.AbsolutePath(path); err == nil {
			return abs
		}
		return path
	}
	if rel, err := source.RelativePath(path, fs.BaseDir()); err == nil {
		return rel
	}
	return path
}

func exitStatus(res *driver.Result) error {
	if res == nil || res.Failed() || res.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// openCache opens the disk cache when --cache or tally.toml asks for it.
func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	enabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	disabled, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if disabled || !(enabled || settings.cfg.Cache.Enabled) {
		return nil, nil
	}
	dir, err := settings.cfg.Cache.CacheDir()
	if err != nil {
		return nil, err
	}
	return driver.OpenDiskCache(dir)
}
