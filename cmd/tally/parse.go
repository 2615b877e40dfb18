package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/diagfmt"
	"tally/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.tl",
	Short: "Parse a tally source file and print its AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|tree|json|dump)")
	parseCmd.Flags().Bool("spans", false, "keep spans and positions in dump output")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := settings.formatFlag(cmd, "pretty", "tree", "json", "dump")
	if err != nil {
		return err
	}
	withSpans, err := cmd.Flags().GetBool("spans")
	if err != nil {
		return fmt.Errorf("failed to get spans flag: %w", err)
	}

	timer := newRunTimer()
	result, err := driver.Parse(cmd.Context(), args[0], driver.Options{
		MaxDiagnostics: settings.cfg.Output.MaxDiagnostics,
		KeepComments:   settings.cfg.Lexer.KeepComments,
		Timer:          timer,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	reportToStderr(result.Bag, result.FileSet)
	if result.Failed() {
		printTimings(timer)
		return errDiagnostics
	}

	switch format {
	case "tree":
		err = diagfmt.FormatASTTree(os.Stdout, result.Program, result.FileSet)
	case "json":
		err = diagfmt.FormatASTJSON(os.Stdout, result.Program)
	case "dump":
		err = diagfmt.FormatASTDump(os.Stdout, result.Program, withSpans)
	default:
		err = diagfmt.FormatASTPretty(os.Stdout, result.Program, result.FileSet)
	}
	if err != nil {
		return err
	}
	printTimings(timer)
	return nil
}
