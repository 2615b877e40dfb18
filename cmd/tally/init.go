package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tally/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a tally.toml with the default settings",
	Long: `Init writes a tally.toml manifest and a sample main.tl into [path]
(the current directory by default). The directory is created if needed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const initManifest = `# tally project settings

[output]
color = "auto"            # auto | on | off
format = "pretty"         # pretty | json
max_diagnostics = 100

[lexer]
keep_comments = false

[trace]
level = "off"             # off | error | phase | detail | debug
mode = "stream"           # stream | ring | both
output = "-"
ring_size = 4096

[cache]
enabled = false
# dir = ".tally-cache"
`

const initMain = `// sample program
let greeting = "hello";
let answer = 40 + 2;
let ready = true;
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(initManifest), 0o600); err != nil {
		return err
	}
	created := []string{project.ManifestName}

	mainPath := filepath.Join(target, "main.tl")
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(initMain), 0o600); err != nil {
			return err
		}
		created = append(created, "main.tl")
	}

	if !settings.quiet {
		for _, name := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", filepath.Join(target, name))
		}
	}
	return nil
}
