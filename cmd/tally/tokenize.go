package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/diagfmt"
	"tally/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.tl",
	Short: "Tokenize a tally source file",
	Long: `Tokenize breaks a tally source file into tokens. Whitespace and comments
are hidden unless --all is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("all", false, "include whitespace and comment tokens")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := settings.formatFlag(cmd, "pretty", "json")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}

	timer := newRunTimer()
	result, err := driver.Tokenize(cmd.Context(), args[0], driver.Options{
		MaxDiagnostics: settings.cfg.Output.MaxDiagnostics,
		Timer:          timer,
	})
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	reportToStderr(result.Bag, result.FileSet)

	tokens := result.Tokens
	if !all {
		tokens = driver.FilterTrivia(tokens, false)
	}
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(os.Stdout, tokens)
	default:
		err = diagfmt.FormatTokensPretty(os.Stdout, tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	printTimings(timer)
	if result.Failed() {
		return errDiagnostics
	}
	return nil
}
