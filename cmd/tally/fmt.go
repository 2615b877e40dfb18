package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tally/internal/driver"
	"tally/internal/format"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <path> [path...]",
	Short: "Format tally source files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "list files that need formatting and fail if there are any")
	fmtCmd.Flags().String("format", "text", "output format (text|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().Int("max-blank-lines", 1, "longest run of empty lines kept between statements (negative drops all)")
}

var errFmtChanges = errors.New("fmt: formatting changes required")

func runFmt(cmd *cobra.Command, args []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	outputFormat, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return err
	}
	blank, err := cmd.Flags().GetInt("max-blank-lines")
	if err != nil {
		return err
	}
	if toStdout && check {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}
	if toStdout && outputFormat != "text" {
		return fmt.Errorf("fmt: --stdout is only supported with text output")
	}
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("fmt: unsupported output format %q", outputFormat)
	}
	if blank == 0 {
		blank = -1 // в format.Options ноль значит "по умолчанию"
	}

	results, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		MaxDiagnostics: settings.cfg.Output.MaxDiagnostics,
		Write:          !check && !toStdout,
		Style:          format.Options{MaxBlankLines: blank},
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	switch {
	case outputFormat == "json":
		if err := renderFmtJSON(out, results, check); err != nil {
			return err
		}
	case toStdout:
		renderFmtStdout(out, errOut, results)
	default:
		renderFmtText(out, errOut, results, check, settings.quiet)
	}

	for _, res := range results {
		if res.Err != nil {
			return errDiagnostics
		}
	}
	if check {
		for _, res := range results {
			if res.Changed {
				return errFmtChanges
			}
		}
	}
	return nil
}

func renderFmtStdout(out, errOut io.Writer, results []driver.FormatResult) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		_, _ = out.Write(res.Formatted)
	}
}

func renderFmtText(out, errOut io.Writer, results []driver.FormatResult, check, quiet bool) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if !res.Changed || quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
		} else {
			fmt.Fprintf(out, "reformatted %s\n", res.Path)
		}
	}
}

func renderFmtJSON(w io.Writer, results []driver.FormatResult, check bool) error {
	type jsonResult struct {
		Path     string `json:"path"`
		Changed  bool   `json:"changed"`
		Error    string `json:"error,omitempty"`
		CheckRun bool   `json:"check"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: check}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		payload = append(payload, jr)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
