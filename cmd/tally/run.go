package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/prof"
)

var (
	stopTracing   = func(bool) {}
	stopProfiling = func() {}
)

// setupRun loads settings and starts profiling and tracing for every command.
func setupRun(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	settings = s

	if err := setupProfiling(cmd); err != nil {
		return err
	}
	stop, err := setupTracing(cmd, settings.cfg.Trace)
	if err != nil {
		stopProfiling()
		return err
	}
	stopTracing = stop
	return nil
}

func teardownRun(_ *cobra.Command) { finishRun(false) }

func failRun(_ *cobra.Command) { finishRun(true) }

func finishRun(failed bool) {
	stopTracing(failed)
	stopProfiling()
	stopTracing = func(bool) {}
	stopProfiling = func() {}
}

// setupProfiling inspects persistent profiling flags and starts a session.
func setupProfiling(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	var (
		opts prof.Options
		err  error
	)
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return err
	}
	stopProfiling = func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}
	return nil
}
