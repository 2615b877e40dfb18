package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/driver"
	"tally/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.tl|directory>",
	Short: "Apply available fixes to a source file or directory",
	Long: "Check the source, surface the fixes its diagnostics offer and apply them. " +
		"--all repeats check and apply until no safe fix is left.",
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes, round after round")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("list", false, "only list available fixes")
	fixCmd.Flags().Bool("stdout", false, "print the fixed source instead of rewriting the file")
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	opts := driver.FixOptions{
		Mode:           mode,
		TargetID:       targetID,
		MaxDiagnostics: settings.cfg.Output.MaxDiagnostics,
		Write:          !toStdout && !list,
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	files := []string{targetPath}
	if info.IsDir() {
		// id уникален только в пределах одного файла
		if targetID != "" {
			return fmt.Errorf("fix: id can only be used with a single file")
		}
		if toStdout {
			return fmt.Errorf("fix: --stdout can only be used with a single file")
		}
		if files, err = driver.ListSourceFiles(targetPath); err != nil {
			return fmt.Errorf("fix: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if list {
		return listFixes(cmd.Context(), out, files, opts)
	}

	failed := false
	for _, path := range files {
		res, err := driver.FixFile(cmd.Context(), path, opts)
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		if toStdout {
			_, _ = out.Write(res.After)
		} else if err := renderFixResult(out, res); err != nil {
			return err
		}
		if res.Final.Failed() {
			failed = true
			if !settings.quiet {
				reportToStderr(res.Final.Bag, res.Final.FileSet)
			}
		}
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

func listFixes(ctx context.Context, out io.Writer, files []string, opts driver.FixOptions) error {
	total := 0
	for _, path := range files {
		// #nosec G304 -- path is provided by the caller
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		cands, _ := driver.ListFixes(ctx, path, src, opts)
		for _, c := range cands {
			preferred := ""
			if c.Fix.IsPreferred {
				preferred = ", preferred"
			}
			fmt.Fprintf(out, "%s: %s [%s] (%s%s)\n", path, c.Fix.Title, c.Fix.ID, c.Fix.Applicability, preferred)
		}
		total += len(cands)
	}
	if total == 0 {
		fmt.Fprintln(out, "No fixes available.")
	}
	return nil
}

func renderFixResult(out io.Writer, res *driver.FixResult) error {
	var printErr error
	if len(res.Applied) > 0 {
		if _, printErr = fmt.Fprintf(out, "%s: applied %d fix(es):\n", res.Path, len(res.Applied)); printErr != nil {
			return printErr
		}
		for _, item := range res.Applied {
			_, printErr = fmt.Fprintf(out, "  %s [%s] (%d edits, %s)\n",
				item.Title, item.ID, item.EditCount, item.Applicability)
			if printErr != nil {
				return printErr
			}
		}
	}
	if len(res.Skipped) > 0 {
		if _, printErr = fmt.Fprintf(out, "%s: skipped fixes:\n", res.Path); printErr != nil {
			return printErr
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				_, printErr = fmt.Fprintf(out, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				_, printErr = fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
			if printErr != nil {
				return printErr
			}
		}
	}
	if len(res.Applied) == 0 && len(res.Skipped) == 0 && res.Final.Failed() {
		_, printErr = fmt.Fprintf(out, "%s: no applicable fixes found\n", res.Path)
	}
	return printErr
}
