package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the tally language server over stdio",
	Args:  cobra.NoArgs,
	RunE:  runLSP,
}

func runLSP(cmd *cobra.Command, _ []string) error {
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		MaxDiagnostics: settings.cfg.Output.MaxDiagnostics,
		Log:            os.Stderr,
	})
	err := server.Run(cmd.Context())
	switch {
	case err == nil, errors.Is(err, lsp.ErrExit):
		return nil
	case errors.Is(err, lsp.ErrExitWithoutShutdown):
		return errors.New("lsp exit without shutdown")
	}
	return err
}
