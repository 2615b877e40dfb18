package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tally/internal/version"
)

// errDiagnostics signals that diagnostics were already printed and the
// process should exit with status 1 without further output.
var errDiagnostics = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Tally language front end",
	Long: `Tally tokenizes, parses and type-checks programs written in a tiny
expression language with let bindings.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(cmd *cobra.Command, _ []string) { teardownRun(cmd) },
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("config", "", "path to tally.toml (default: search upwards from the working directory)")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for ring and both modes")

	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file")
	pf.String("runtime-trace", "", "write Go runtime trace to file")
}

// main executes the root command. Diagnostics have already been printed
// when errDiagnostics comes back; other errors are reported here.
func main() {
	if err := execute(os.Args[1:]); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func execute(args []string) error {
	defer dumpTraceOnPanic()
	rootCmd.SetArgs(args)
	rootCmd.SilenceErrors = true
	err := rootCmd.Execute()
	if err != nil {
		// PersistentPostRun не вызывается при ошибке
		failRun(rootCmd)
	}
	return err
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
