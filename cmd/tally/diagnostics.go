package main

import (
	"os"

	"tally/internal/diag"
	"tally/internal/diagfmt"
	"tally/internal/source"
)

// reportToStderr prints the bag in pretty form to stderr, if it has anything.
func reportToStderr(bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:     settings.useColor(os.Stderr),
		Context:   2,
		ShowNotes: true,
		ShowFixes: true,
		Max:       settings.cfg.Output.MaxDiagnostics,
	})
}
