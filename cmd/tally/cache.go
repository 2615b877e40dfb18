package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tally/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the environment cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := settings.cfg.Cache.CacheDir()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached environment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := settings.cfg.Cache.CacheDir()
		if err != nil {
			return err
		}
		cache, err := driver.OpenDiskCache(dir)
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		if !settings.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", dir)
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}
